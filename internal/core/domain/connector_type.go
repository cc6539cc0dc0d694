package domain

// ConfigKey describes one connector configuration field.
// Consumed by the configuration surface for validation and rendering;
// the core never interprets values beyond passing them through.
type ConfigKey struct {
	// Key is the config map key.
	Key string

	// Type is the field type ("string", "bool", "int").
	Type string

	// Description explains the field to the user.
	Description string

	// Required marks fields that must be present at source creation.
	Required bool

	// Default is the value used when the field is omitted.
	Default string
}

// ConnectorType describes a connector implementation's metadata.
type ConnectorType struct {
	// ID is the source type identifier (matches SourceType).
	ID SourceType

	// Name is the human-readable connector name.
	Name string

	// Description explains what the connector indexes.
	Description string

	// CredentialKeys lists the credential fields the connector requires.
	// Used by ValidateCredentials for the structural presence check.
	CredentialKeys []string

	// ConfigKeys describes the connector-specific configuration schema.
	ConfigKeys []ConfigKey
}
