package domain

// Role represents user role in the system
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is a known role
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// ApprovalStatus represents a user's membership standing
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// PaymentStatus represents a payment's settlement status
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentProvider is the channel a membership fee was paid through
type PaymentProvider string

const (
	ProviderMpesa PaymentProvider = "mpesa"
	ProviderBank  PaymentProvider = "bank"
	ProviderCash  PaymentProvider = "cash"
)

// Valid reports whether the provider is a known provider
func (p PaymentProvider) Valid() bool {
	return p == ProviderMpesa || p == ProviderBank || p == ProviderCash
}

// AnnouncementType categorizes announcements
type AnnouncementType string

const (
	AnnouncementGeneral AnnouncementType = "general"
	AnnouncementUrgent  AnnouncementType = "urgent"
	AnnouncementEvent   AnnouncementType = "event"
	AnnouncementMeeting AnnouncementType = "meeting"
)

// Valid reports whether the type is a known announcement type
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementGeneral, AnnouncementUrgent, AnnouncementEvent, AnnouncementMeeting:
		return true
	}
	return false
}

// MembershipFee is the club membership fee in TZS
const MembershipFee = 15000

// PictureUploadDeadlineHours is how long a new member has to upload a
// profile picture after registering
const PictureUploadDeadlineHours = 72
