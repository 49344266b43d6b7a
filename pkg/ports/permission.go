package ports

// Capability names a host permission the link needs before it may discover or connect.
type Capability string

const (
	CapabilityConnect  Capability = "connect"
	CapabilityScan     Capability = "scan"
	CapabilityLocation Capability = "location"
)

// DefaultCapabilities is the set a session requires unless configured otherwise.
var DefaultCapabilities = []Capability{CapabilityConnect, CapabilityScan, CapabilityLocation}

// PermissionGate reports granted capabilities. Requesting them is the host's concern.
type PermissionGate interface {
	Granted(c Capability) bool
}

// PermissionFunc adapts a function to PermissionGate.
type PermissionFunc func(c Capability) bool

func (f PermissionFunc) Granted(c Capability) bool {
	return f(c)
}

// AllowAll is a gate granting every capability (hosts without a permission model).
var AllowAll PermissionGate = PermissionFunc(func(Capability) bool { return true })
