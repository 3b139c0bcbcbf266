// Package params builds the SSM parameter paths shared by the handlers, the
// tenant resolvers and the parameter store stack. All platform parameters
// live under /dataall/{envname}/.
package params

import "fmt"

const root = "/dataall"

// ResourcePrefix is the parameter holding the environment resource prefix.
func ResourcePrefix(envname string) string {
	return fmt.Sprintf("%s/%s/resourcePrefix", root, envname)
}

// PivotRoleName holds the name of the cross-account pivot role.
func PivotRoleName(envname string) string {
	return fmt.Sprintf("%s/%s/pivotRole/pivotRoleName", root, envname)
}

// PivotRoleExternalID holds the external id required to assume the pivot role.
func PivotRoleExternalID(envname string) string {
	return fmt.Sprintf("%s/%s/pivotRole/externalId", root, envname)
}

// PivotRoleAutoCreate flags whether environments create their pivot role as
// part of their own stack.
func PivotRoleAutoCreate(envname string) string {
	return fmt.Sprintf("%s/%s/pivotRole/enablePivotRoleAutoCreate", root, envname)
}

// Backend addresses a named backend wiring parameter published by the
// backend stack, such as the task queue URL.
func Backend(envname, name string) string {
	return fmt.Sprintf("%s/%s/backend/%s", root, envname, name)
}

// FrontendCustomDomain holds the frontend hosted zone name, when configured.
func FrontendCustomDomain(envname string) string {
	return fmt.Sprintf("%s/%s/frontend/custom_domain_name", root, envname)
}

// UserGuideCustomDomain holds the user guide hosted zone name.
func UserGuideCustomDomain(envname string) string {
	return fmt.Sprintf("%s/%s/userguide/custom_domain_name", root, envname)
}

// CanaryAccount and CanaryRegion locate the CloudWatch canary environment.
func CanaryAccount(envname string) string {
	return fmt.Sprintf("%s/%s/canary/environment_account", root, envname)
}

func CanaryRegion(envname string) string {
	return fmt.Sprintf("%s/%s/canary/environment_region", root, envname)
}

// QuicksightMonitoring addresses a named QuickSight monitoring setting.
func QuicksightMonitoring(envname, name string) string {
	return fmt.Sprintf("%s/%s/quicksightmonitoring/%s", root, envname, name)
}

// QuicksightSharedSessions holds the shared dashboard session policy.
func QuicksightSharedSessions(envname string) string {
	return fmt.Sprintf("%s/%s/quicksight/sharedDashboardsSessions", root, envname)
}
