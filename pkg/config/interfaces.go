package config

// Validator interface for configurations that need validation.
type Validator interface {
	Validate() error
}

// Defaulter fills unset fields before validation runs.
type Defaulter interface {
	ApplyDefaults()
}
