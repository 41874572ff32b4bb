package record

// Metadata supplies application and device identification attached to
// every log record. The values are opaque strings; the logging core
// never computes or validates them.
type Metadata interface {
	// AppVersion returns the application version, e.g. "3.12.0 (1451)".
	AppVersion() string

	// PlatformVersion returns the OS or platform version.
	PlatformVersion() string

	// DeviceType returns the device model identifier.
	DeviceType() string
}

// StaticMetadata is a fixed Metadata implementation.
type StaticMetadata struct {
	App      string
	Platform string
	Device   string
}

// AppVersion returns the configured application version.
func (m StaticMetadata) AppVersion() string { return m.App }

// PlatformVersion returns the configured platform version.
func (m StaticMetadata) PlatformVersion() string { return m.Platform }

// DeviceType returns the configured device type.
func (m StaticMetadata) DeviceType() string { return m.Device }

// Compile-time interface satisfaction check.
var _ Metadata = StaticMetadata{}
