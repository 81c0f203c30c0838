package domain

import (
	"context"
	"time"
)

// Gender is the member's declared gender.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
)

// Authority defines the role of an account.
type Authority string

const (
	AuthorityUser  Authority = "USER"
	AuthorityAdmin Authority = "ADMIN"
	// AuthorityGuest is only ever embedded in short-lived identity-check tokens;
	// no persisted account carries it.
	AuthorityGuest Authority = "GUEST"
)

// LoginOrigin identifies which identity provider an account's credentials are
// rooted in. The same email may exist once per origin, so a local account and a
// provider-linked account can coexist.
type LoginOrigin string

const (
	OriginLocal LoginOrigin = "LOCAL"
	OriginKakao LoginOrigin = "KAKAO"
	OriginNaver LoginOrigin = "NAVER"
)

// User represents a member account capable of authenticating.
type User struct {
	ID             int64       `bson:"_id,omitempty"`
	Name           string      `bson:"name"`
	Birth          time.Time   `bson:"birth"`
	Gender         Gender      `bson:"gender"`
	Email          string      `bson:"email"`
	PasswordHash   string      `bson:"password_hash"`
	PhoneNum       string      `bson:"phone_num"`
	InfoReceivable bool        `bson:"info_receivable"`
	LifeStyle      *string     `bson:"life_style,omitempty"`
	Authority      Authority   `bson:"authority"`
	LoginOrigin    LoginOrigin `bson:"login_origin"`
	RoomID         int64       `bson:"room_id,omitempty"`
	CreatedAt      time.Time   `bson:"created_at"`
	UpdatedAt      time.Time   `bson:"updated_at"`
}

// OnboardingComplete reports whether the member has finished the lifestyle
// questionnaire. Session issuance is gated on this.
func (u *User) OnboardingComplete() bool {
	return u.LifeStyle != nil
}

// UserSummary is the principal projection returned alongside tokens and in the
// onboarding-needed payload.
type UserSummary struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Birth     time.Time   `json:"birth"`
	Gender    Gender      `json:"gender"`
	Email     string      `json:"email"`
	PhoneNum  string      `json:"phoneNum"`
	RoomID    int64       `json:"roomId"`
	LifeStyle *string     `json:"lifeStyle,omitempty"`
	Authority Authority   `json:"authority,omitempty"`
	Origin    LoginOrigin `json:"loginType,omitempty"`
}

// Summary builds the wire projection of a user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Birth:     u.Birth,
		Gender:    u.Gender,
		Email:     u.Email,
		PhoneNum:  u.PhoneNum,
		RoomID:    u.RoomID,
		LifeStyle: u.LifeStyle,
		Authority: u.Authority,
		Origin:    u.LoginOrigin,
	}
}

// UserRepository defines the account lookups and updates this core depends on.
// Account creation and deletion belong to the registration flow and are not
// part of this interface.
type UserRepository interface {
	// GetUserByEmailAndOrigin resolves a principal by the (email, origin)
	// unique pair.
	GetUserByEmailAndOrigin(ctx context.Context, email string, origin LoginOrigin) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByPhoneNum(ctx context.Context, phoneNum string) (*User, error)
	ExistsByPhoneNumAndEmail(ctx context.Context, phoneNum, email string) (bool, error)
	ExistsByPhoneNum(ctx context.Context, phoneNum string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateLifeStyle(ctx context.Context, id int64, lifeStyle string) error
}
