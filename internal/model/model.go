// Package model defines the persisted entities of the data-governance
// control plane. Entities are plain structs scanned from the store; all
// cross-entity references go through URI strings.
package model

import "time"

// TaskStatus tracks the lifecycle of a deferred unit of work.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// Task is a unit of deferred work routed to a handler by its Action path
// (for example "s3.prefix.create"). TargetURI references the domain entity
// the handler operates on; it must resolve to exactly one persisted entity
// before any AWS call is attempted.
type Task struct {
	TaskURI   string
	TargetURI string
	Action    string
	Status    TaskStatus
	Error     string
	Payload   map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Environment is a tenant AWS account linked to the control plane.
type Environment struct {
	EnvironmentURI string
	Name           string
	AwsAccountID   string
	Region         string
	ResourcePrefix string
	SamlGroupName  string
}

// EnvironmentGroup is a SAML group onboarded onto an environment.
type EnvironmentGroup struct {
	GroupURI       string
	GroupName      string
	EnvironmentURI string
	IAMRoleArn     string
}

// DatasetStorageLocation is an S3 prefix registered as a dataset location
// in a tenant account.
type DatasetStorageLocation struct {
	LocationURI     string
	AwsAccountID    string
	Region          string
	S3BucketName    string
	S3Prefix        string
	LocationCreated bool
}

// OmicsPipeline describes a tenant genomics pipeline whose CodeCommit
// repository and CodePipeline are generated by the control plane.
type OmicsPipeline struct {
	PipelineURI    string
	Name           string
	Description    string
	EnvironmentURI string
	S3InputBucket  string
	S3InputPrefix  string
	S3OutputBucket string
	S3OutputPrefix string
	SamlGroupName  string
}

// TenantPermission is a named permission granted to a group at tenant level.
type TenantPermission struct {
	Name        string
	Description string
}

// TenantGroup is a group with its tenant-level permissions resolved.
type TenantGroup struct {
	GroupURI    string
	GroupName   string
	Permissions []TenantPermission
}
