package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("user account is inactive")
var ErrSuperAdminExists = errors.New("super admin already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrVoterNotFound = errors.New("voter not found")
var ErrUnreadableFile = errors.New("file could not be parsed")
var ErrSessionNotFound = errors.New("import session not found")
var ErrTemplateNotFound = errors.New("survey template not found")
var ErrTaskNotFound = errors.New("task not found")
var ErrFamilyNotFound = errors.New("family not found")
var ErrIssueNotFound = errors.New("issue not found")
