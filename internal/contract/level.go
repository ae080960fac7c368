package contract

// Level is the severity of a log record.
type Level string

// Standardized severity levels.
const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// Levels lists all severities in ascending order.
func Levels() []Level {
	return []Level{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}
}

// Valid reports whether l is a known severity.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return true
	}
	return false
}

// ServiceType identifies a service's role in the ecosystem.
type ServiceType string

// Known service types.
const (
	ServiceAuth                ServiceType = "auth-service"
	ServiceNexMobileBackend    ServiceType = "nex-mobile-backend"
	ServiceNexWebBackend       ServiceType = "nex-web-backend"
	ServiceNexWeb              ServiceType = "nex-web"
	ServiceCloudManager        ServiceType = "cloud-manager"
	ServiceConductor           ServiceType = "conductor"
	ServiceBrowseUse           ServiceType = "browse-use"
	ServiceEmail               ServiceType = "email-service"
	ServiceEvent               ServiceType = "event-service"
	ServiceMigrationController ServiceType = "migration-controller"
	ServiceAlerts              ServiceType = "alerts"
	ServiceEcommerce           ServiceType = "ecommerce"
	ServiceOther               ServiceType = "other"
)

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceAuth, ServiceNexMobileBackend, ServiceNexWebBackend, ServiceNexWeb,
		ServiceCloudManager, ServiceConductor, ServiceBrowseUse, ServiceEmail,
		ServiceEvent, ServiceMigrationController, ServiceAlerts, ServiceEcommerce,
		ServiceOther:
		return true
	}
	return false
}
