package model

// BackupVersion is the format version stamped on exports.
const BackupVersion = "1.0"

// Backup is the portable snapshot of the whole store. Each collection
// field carries the raw serialized value exactly as persisted (a JSON
// document encoded as a string), so exports stay byte-compatible with
// backups taken from older deployments.
type Backup struct {
	AdminPassword *string `json:"adminPassword,omitempty"`
	Students      *string `json:"students,omitempty"`
	Tests         *string `json:"tests,omitempty"`
	TestResults   *string `json:"testResults,omitempty"`
	ExportDate    string  `json:"exportDate"`
	Version       string  `json:"version"`
}

// ImportBackupRequest wraps a Backup with the explicit confirmation the
// import flow requires before overwriting live data.
type ImportBackupRequest struct {
	Backup
	Confirm bool `json:"confirm"`
}
