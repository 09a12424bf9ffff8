package config

// StorageKeyStruct names the persisted records in the key-value store.
// The literal values match the record names used by older deployments
// so that backup files remain interchangeable.
type StorageKeyStruct struct {
	AdminPassword string
	Students      string
	Tests         string
	TestResults   string
}

var StorageKey = &StorageKeyStruct{
	AdminPassword: "adminPassword",
	Students:      "students",
	Tests:         "tests",
	TestResults:   "testResults",
}
