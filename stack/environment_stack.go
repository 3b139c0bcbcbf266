package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"datagov/internal/model"
)

// EnvironmentStackProps configures the stack deployed into a tenant account
// when an environment is linked to the control plane.
type EnvironmentStackProps struct {
	awscdk.StackProps
	// Environment being onboarded.
	Environment *model.Environment
	// PivotRoleName to create in the tenant account.
	PivotRoleName string
	// CentralAccountID trusted to assume the pivot role.
	CentralAccountID string
	// ExternalID required on assumption, distributed via the central
	// parameter store.
	ExternalID string
}

// EnvironmentStack is the per-tenant-account stack. Its only resource today
// is the pivot role; environment features add their own nested stacks.
type EnvironmentStack struct {
	awscdk.Stack
	PivotRole *PivotRoleStack
}

func NewEnvironmentStack(scope constructs.Construct, id string, props *EnvironmentStackProps) *EnvironmentStack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	pivotRole := NewPivotRoleStack(stack, "PivotRoleStack", &PivotRoleStackProps{
		RoleName:         props.PivotRoleName,
		CentralAccountID: props.CentralAccountID,
		ExternalID:       props.ExternalID,
		ResourcePrefix:   props.Environment.ResourcePrefix,
	})

	awscdk.Tags_Of(stack).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("Environment"), jsii.String(props.Environment.EnvironmentURI), nil)

	awscdk.NewCfnOutput(stack, jsii.String("PivotRoleName"), &awscdk.CfnOutputProps{
		Value:       jsii.String(props.PivotRoleName),
		Description: jsii.String("Name of the pivot role created in this account"),
		ExportName:  jsii.String(fmt.Sprintf("%s-pivotrole-name", props.Environment.ResourcePrefix)),
	})

	return &EnvironmentStack{Stack: stack, PivotRole: pivotRole}
}
