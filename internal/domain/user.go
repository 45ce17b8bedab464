package domain

import "time"

// Role granted authority of a principal
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User an authenticated principal (users table)
type User struct {
	ID                string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Username          string    `gorm:"column:username;type:varchar(15);uniqueIndex:idx_users_username;not null" json:"username"`
	Email             string    `gorm:"column:email;type:varchar(100);uniqueIndex:idx_users_email;not null" json:"email"`
	Password          string    `gorm:"column:password;type:varchar(100);not null" json:"-"`
	Role              Role      `gorm:"column:role;type:varchar(20);not null" json:"role"`
	Active            bool      `gorm:"column:active;default:true" json:"active"`
	DisplayName       string    `gorm:"column:display_name;type:varchar(100);index:idx_users_display_name" json:"display_name"`
	ProfilePictureURL string    `gorm:"column:profile_picture_url;type:varchar(500)" json:"profile_picture_url"`
	Addresses         []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Authorities returns the granted roles of the principal
func (u *User) Authorities() []string {
	return []string{string(u.Role)}
}

// Address postal address attached to a user profile
type Address struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         string `gorm:"column:user_id;type:varchar(36);index" json:"-"`
	Country        string `gorm:"column:country;type:varchar(100)" json:"country"`
	City           string `gorm:"column:city;type:varchar(100)" json:"city"`
	ZipCode        string `gorm:"column:zip_code;type:varchar(20)" json:"zip_code"`
	StreetName     string `gorm:"column:street_name;type:varchar(200)" json:"street_name"`
	BuildingNumber int    `gorm:"column:building_number" json:"building_number"`
}

func (Address) TableName() string {
	return "user_addresses"
}

// SignUpRequest registration request
type SignUpRequest struct {
	Name           string `json:"name" binding:"required,min=3,max=40"`
	Username       string `json:"username" binding:"required,min=3,max=15"`
	Email          string `json:"email" binding:"required,email,max=40"`
	Password       string `json:"password" binding:"required,min=6,max=20"`
	ProfilePicture string `json:"profile_picture_url"`
}

// SignInRequest login request
type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse bearer token returned by sign-in and sign-up
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserSummary public view of a user
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

// ToSummary converts User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.DisplayName,
		ProfilePicture: u.ProfilePictureURL,
	}
}

// UserProfile profile view and update payload
type UserProfile struct {
	Username          string    `json:"username" binding:"required,min=3,max=15"`
	Email             string    `json:"email" binding:"required,email,max=40"`
	DisplayName       string    `json:"display_name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	Addresses         []Address `json:"addresses,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToProfile converts User to UserProfile
func (u *User) ToProfile() *UserProfile {
	return &UserProfile{
		Username:          u.Username,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
		Addresses:         u.Addresses,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
