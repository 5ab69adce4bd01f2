package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Social       *SocialLink        `bson:"social,omitempty" json:"social,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// SocialLink is the linked X account credential bundle embedded in a user
// document. Access and refresh tokens are stored AES-GCM sealed and are
// never serialized back to the account owner.
type SocialLink struct {
	AccessToken  string     `bson:"access_token" json:"-"`
	RefreshToken string     `bson:"refresh_token" json:"-"`
	ExpiresAt    *time.Time `bson:"expires_at,omitempty" json:"-"`
	RemoteID     string     `bson:"remote_id" json:"remote_id"`
	Handle       string     `bson:"handle" json:"handle"`
	AutoPublish  bool       `bson:"auto_publish" json:"auto_publish"`
	LastPublish  *time.Time `bson:"last_publish,omitempty" json:"last_publish,omitempty"`
}

// Connected reports whether the link can be used for publishing. A link
// without an access token counts as disconnected no matter what the
// auto-publish flag says.
func (l *SocialLink) Connected() bool {
	return l != nil && l.AccessToken != "" && l.AutoPublish
}
