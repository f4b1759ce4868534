package models

// User is an account identity. Coaches and admins are users with the
// corresponding flag set.
type User struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	PasswordHash   string  `db:"password_hash" json:"-"`
	Email          string  `db:"email" json:"email"`
	FullName       string  `db:"full_name" json:"full_name"`
	Phone          *string `db:"phone" json:"phone,omitempty"`
	ProfileImage   *string `db:"profile_image" json:"profile_image,omitempty"`
	Bio            *string `db:"bio" json:"bio,omitempty"`
	IsCoach        bool    `db:"is_coach" json:"is_coach"`
	IsAdmin        bool    `db:"is_admin" json:"is_admin"`
	SocialProvider *string `db:"social_provider" json:"social_provider,omitempty"`
	SocialID       *string `db:"social_id" json:"-"`
}

// Author is the public slice of a user shown next to reviews.
type Author struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FullName     string  `json:"full_name"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// AuthorOf projects the public fields of u.
func AuthorOf(u User) Author {
	return Author{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfileImage: u.ProfileImage}
}
