package domain

import (
	"fmt"
	"strings"
	"time"
)

// VerificationRecord links a Roblox account to a Discord account while a
// verification is pending. Records are keyed by RobloxUsername — exact,
// case-sensitive match.
type VerificationRecord struct {
	RecordID        string `json:"recordId"`
	RobloxUsername  string `json:"robloxUsername"`
	RobloxID        string `json:"robloxID"`
	DiscordUsername string `json:"discordUsername"`
	DiscordID       string `json:"discordID"`
	// TimeToVerify is the expiry instant exactly as the client supplied it:
	// decimal Unix seconds or an ISO-8601 date-time. Echoed back verbatim.
	TimeToVerify string `json:"timeToVerify"`
	// ExpiresAt is TimeToVerify normalized to Unix seconds at write time.
	// All expiry comparisons use this field.
	ExpiresAt  int64     `json:"expiresAt"`
	JoinedGame bool      `json:"joinedGame"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VerificationWriteRequest is the POST body for the write endpoint. The same
// endpoint accepts two shapes: a full verification (all identity fields plus
// timeToVerify) and a joinedGame-only update (just the username and the
// flag). Pointer fields distinguish "absent" from "empty"; Classify decides
// which shape a payload is.
type VerificationWriteRequest struct {
	RobloxUsername  string  `json:"robloxUsername"`
	RobloxID        *string `json:"robloxID"`
	DiscordUsername *string `json:"discordUsername"`
	DiscordID       *string `json:"discordID"`
	TimeToVerify    *string `json:"timeToVerify"`
	JoinedGame      *bool   `json:"joinedGame"`
}

// FullVerification establishes or replaces a whole record.
type FullVerification struct {
	RobloxUsername  string `json:"robloxUsername" validate:"required"`
	RobloxID        string `json:"robloxID" validate:"required"`
	DiscordUsername string `json:"discordUsername" validate:"required"`
	DiscordID       string `json:"discordID" validate:"required"`
	TimeToVerify    string `json:"timeToVerify" validate:"required"`
	JoinedGame      bool   `json:"joinedGame"`
}

// JoinedGameUpdate flips the joinedGame flag on an existing record.
type JoinedGameUpdate struct {
	RobloxUsername string
	JoinedGame     bool
}

// fullFields are the wire names of the fields a full verification requires
// beyond robloxUsername, in the order they are reported when missing.
var fullFields = []string{"robloxID", "discordUsername", "discordID", "timeToVerify"}

// Classify resolves the ambiguous payload into exactly one write shape.
// A payload carrying robloxID, discordUsername, discordID and timeToVerify
// is a full verification (joinedGame optional, defaults false). A payload
// carrying only robloxUsername and joinedGame is a partial update. Anything
// else is a bad request naming the missing fields. Emptiness of supplied
// full-verification fields is left to struct validation so the caller gets
// wire-level field names either way.
func (r *VerificationWriteRequest) Classify() (*FullVerification, *JoinedGameUpdate, error) {
	if r.RobloxUsername == "" {
		return nil, nil, fmt.Errorf("missing required field: robloxUsername: %w", ErrBadRequest)
	}

	if r.RobloxID != nil && r.DiscordUsername != nil && r.DiscordID != nil && r.TimeToVerify != nil {
		fv := &FullVerification{
			RobloxUsername:  r.RobloxUsername,
			RobloxID:        *r.RobloxID,
			DiscordUsername: *r.DiscordUsername,
			DiscordID:       *r.DiscordID,
			TimeToVerify:    *r.TimeToVerify,
		}
		if r.JoinedGame != nil {
			fv.JoinedGame = *r.JoinedGame
		}
		return fv, nil, nil
	}

	if r.JoinedGame != nil && r.RobloxID == nil && r.DiscordUsername == nil && r.DiscordID == nil && r.TimeToVerify == nil {
		return nil, &JoinedGameUpdate{RobloxUsername: r.RobloxUsername, JoinedGame: *r.JoinedGame}, nil
	}

	var missing []string
	for i, present := range []bool{r.RobloxID != nil, r.DiscordUsername != nil, r.DiscordID != nil, r.TimeToVerify != nil} {
		if !present {
			missing = append(missing, fullFields[i])
		}
	}
	return nil, nil, fmt.Errorf("missing required fields: %s: %w", strings.Join(missing, ", "), ErrBadRequest)
}
