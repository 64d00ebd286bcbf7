package domain

// SubjectType differentiates directory principals vs vetting officer tokens.
type SubjectType string

const (
	SubjectTypePrincipal SubjectType = "principal"
	SubjectTypeOfficer   SubjectType = "officer"
)
