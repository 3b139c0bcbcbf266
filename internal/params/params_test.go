package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/dataall/prod/resourcePrefix", ResourcePrefix("prod"))
	assert.Equal(t, "/dataall/prod/pivotRole/pivotRoleName", PivotRoleName("prod"))
	assert.Equal(t, "/dataall/prod/pivotRole/externalId", PivotRoleExternalID("prod"))
	assert.Equal(t, "/dataall/prod/pivotRole/enablePivotRoleAutoCreate", PivotRoleAutoCreate("prod"))
	assert.Equal(t, "/dataall/prod/backend/taskQueueUrl", Backend("prod", "taskQueueUrl"))
	assert.Equal(t, "/dataall/dev/quicksightmonitoring/DashboardId", QuicksightMonitoring("dev", "DashboardId"))
	assert.Equal(t, "/dataall/dev/quicksight/sharedDashboardsSessions", QuicksightSharedSessions("dev"))
}
