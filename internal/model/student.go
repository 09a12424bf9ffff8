package model

// StudentCodeLength is the fixed length of generated login codes.
const StudentCodeLength = 6

// StudentCodeAlphabet is the character set codes are drawn from.
const StudentCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Student represents a student account. The code doubles as the login
// credential and as the foreign key on results.
type Student struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StudentLoginRequest is the payload for student authentication.
// Codes are matched case-insensitively (uppercased before lookup).
type StudentLoginRequest struct {
	Code string `json:"code" binding:"required,len=6,alphanum"`
}

// CreateStudentRequest is the payload for registering a new student.
// The code is generated server-side.
type CreateStudentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateStudentRequest is the payload for renaming a student.
type UpdateStudentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}
