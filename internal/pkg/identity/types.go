package identity

// Organization is an organization record as owned by the identity
// provider. Subscription state and billing contact details live inside
// the two metadata scopes, not in first-class columns.
type Organization struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Slug                  string                 `json:"slug"`
	ImageURL              string                 `json:"image_url"`
	MembersCount          int                    `json:"members_count"`
	MaxAllowedMemberships int                    `json:"max_allowed_memberships"`
	PublicMetadata        map[string]interface{} `json:"public_metadata"`
	PrivateMetadata       map[string]interface{} `json:"private_metadata"`
	CreatedAt             int64                  `json:"created_at"` // unix ms
}

// OrganizationList is one page of organizations plus the provider's
// reported total. The total is per-response and may drift between pages
// while organizations are created concurrently.
type OrganizationList struct {
	Data       []Organization `json:"data"`
	TotalCount int64          `json:"total_count"`
}

// EmailAddress is a single email attached to a provider user.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// User is a user record as owned by the identity provider.
type User struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	CreatedAt      int64          `json:"created_at"`    // unix ms
	LastSignInAt   *int64         `json:"last_sign_in_at"` // unix ms, nil = never
}

// UserList is one page of users plus the provider's reported total.
type UserList struct {
	Data       []User `json:"data"`
	TotalCount int64  `json:"total_count"`
}

// ListParams are the common pagination/filter parameters for list calls.
type ListParams struct {
	Limit               int
	Offset              int
	Query               string
	IncludeMembersCount bool
	OrderBy             string
}

// CreateOrganizationParams creates a new organization owned by a user.
type CreateOrganizationParams struct {
	Name      string `json:"name"`
	Slug      string `json:"slug,omitempty"`
	CreatedBy string `json:"created_by"`
}

// UpdateOrganizationParams is a partial update. Nil fields are omitted
// from the request entirely. A non-nil metadata map REPLACES the whole
// scope on the provider side, so partial metadata edits must
// read-modify-write through GetOrganization first.
type UpdateOrganizationParams struct {
	Name                  *string                `json:"name,omitempty"`
	Slug                  *string                `json:"slug,omitempty"`
	MaxAllowedMemberships *int                   `json:"max_allowed_memberships,omitempty"`
	PublicMetadata        map[string]interface{} `json:"public_metadata,omitempty"`
	PrivateMetadata       map[string]interface{} `json:"private_metadata,omitempty"`
}

// CreateUserParams creates a new provider user.
type CreateUserParams struct {
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	EmailAddress       []string `json:"email_address"`
	Password           string   `json:"password"`
	SkipPasswordChecks bool     `json:"skip_password_checks,omitempty"`
}

// UpdateUserParams is a partial user update. Nil fields are omitted.
type UpdateUserParams struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
