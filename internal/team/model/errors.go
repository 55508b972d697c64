package model

import "errors"

// Sentinel errors for team operations.
var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrTeamNameTooLong    = errors.New("team name must not exceed 20 characters")
	ErrDescriptionTooLong = errors.New("team description must not exceed 512 characters")
	ErrInvalidMaxNum      = errors.New("team capacity must be between 1 and 20")
	ErrInvalidStatus      = errors.New("invalid team status")
	ErrInvalidExpireTime  = errors.New("team expire time must be in the future")
	ErrPasswordRequired   = errors.New("encrypted team requires a password")
	ErrWrongTeamPassword  = errors.New("wrong team password")
	ErrTeamFull           = errors.New("team is full")
	ErrTeamExpired        = errors.New("team has expired")
	ErrAlreadyMember      = errors.New("already a member of this team")
	ErrNotMember          = errors.New("not a member of this team")
	ErrNotLeader          = errors.New("only the team leader may do this")
	ErrAlreadyLeader      = errors.New("user is already the team leader")
	ErrLeaderCannotExit   = errors.New("leader must transfer leadership or disband the team")
	ErrCannotRemoveSelf   = errors.New("leader cannot remove themself")
	ErrLockBusy           = errors.New("team is busy, try again")
)
