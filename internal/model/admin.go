package model

// The admin credential is a single secret string persisted as-is.
// Backup export/import must stay byte-compatible with data written by
// older deployments, which rules out hashing the stored value.

// AdminLoginRequest is the payload for admin authentication. On first
// ever login the supplied password becomes the credential (bootstrap).
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// ChangePasswordRequest is the payload for replacing the admin credential.
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=1,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=1,max=128"`
}
