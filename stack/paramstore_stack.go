package stack

import (
	"strconv"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"datagov/internal/params"
)

// ParamStoreStackProps configures the SSM parameters published for one
// platform environment.
type ParamStoreStackProps struct {
	awscdk.StackProps
	// Envname segments every parameter path.
	Envname string
	// ResourcePrefix is published for environment stacks to pick up.
	ResourcePrefix string
	// CustomDomain, when set, publishes the frontend and user guide
	// domain names.
	CustomDomain string
	// EnableCWCanaries publishes the canary environment parameters.
	EnableCWCanaries bool
	// QuicksightEnabled publishes the shared dashboard session policy.
	QuicksightEnabled bool
	// SharedDashboardSessions is the QuickSight session sharing policy,
	// "anonymous" or "registered".
	SharedDashboardSessions string
	// EnablePivotRoleAutoCreate marks environments as owning their pivot
	// role stack.
	EnablePivotRoleAutoCreate bool
	// PivotRoleName is the pivot role name distributed to the handlers.
	PivotRoleName string
	// ExternalID for pivot role assumption. Generated when empty.
	ExternalID string
}

// ParamStoreStack publishes the platform configuration under
// /dataall/{envname} so handlers and environment stacks share one source.
type ParamStoreStack struct {
	awscdk.Stack
}

func NewParamStoreStack(scope constructs.Construct, id string, props *ParamStoreStackProps) *ParamStoreStack {
	stack := awscdk.NewStack(scope, jsii.String(id), &props.StackProps)

	putParameter(stack, "ResourcePrefixParam", params.ResourcePrefix(props.Envname), props.ResourcePrefix)
	putParameter(stack, "PivotRoleNameParam", params.PivotRoleName(props.Envname), props.PivotRoleName)
	putParameter(stack, "PivotRoleAutoCreateParam", params.PivotRoleAutoCreate(props.Envname),
		strconv.FormatBool(props.EnablePivotRoleAutoCreate))

	externalID := props.ExternalID
	if externalID == "" {
		externalID = GenerateExternalID()
	}
	putParameter(stack, "PivotRoleExternalIDParam", params.PivotRoleExternalID(props.Envname), externalID)

	if props.CustomDomain != "" {
		putParameter(stack, "FrontendDomainParam", params.FrontendCustomDomain(props.Envname), props.CustomDomain)
		putParameter(stack, "UserGuideDomainParam", params.UserGuideCustomDomain(props.Envname), props.CustomDomain)
	}

	if props.EnableCWCanaries {
		putParameter(stack, "CanaryAccountParam", params.CanaryAccount(props.Envname), *stack.Account())
		putParameter(stack, "CanaryRegionParam", params.CanaryRegion(props.Envname), *stack.Region())
	}

	if props.QuicksightEnabled {
		sessions := props.SharedDashboardSessions
		if sessions == "" {
			sessions = "anonymous"
		}
		putParameter(stack, "QuicksightSessionsParam", params.QuicksightSharedSessions(props.Envname), sessions)
	}

	awscdk.Tags_Of(stack).Add(jsii.String(DefaultResourceTagKey), jsii.String(DefaultResourceTagValue), nil)

	return &ParamStoreStack{Stack: stack}
}

func putParameter(stack awscdk.Stack, id, name, value string) awsssm.StringParameter {
	return awsssm.NewStringParameter(stack, jsii.String(id), &awsssm.StringParameterProps{
		ParameterName: jsii.String(name),
		StringValue:   jsii.String(value),
	})
}
