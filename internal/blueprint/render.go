// Package blueprint turns the pipeline blueprint directory into a deployable
// CodeCommit seed: it renders the CDK application entrypoint for one
// pipeline/environment pair and packages the directory as code.zip.
package blueprint

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"datagov/internal/model"
)

// AppFileName is the rendered entrypoint inside the blueprint directory.
const AppFileName = "main.go"

// appTemplate is the CDK application entrypoint committed into each
// generated pipeline repository. The synthesized stack reads everything else
// from its own repo; only the identifying parameters are baked in.
var appTemplate = template.Must(template.New("app").Funcs(sprig.TxtFuncMap()).Parse(`package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"omicspipeline/stacks"
)

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)

	stacks.NewOmicsPipelineStack(app, "{{ .ResourcePrefix }}", &stacks.OmicsPipelineStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
				Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
			},
		},
		PipelineName:      "{{ .Pipeline.Name }}",
		PipelineURI:       "{{ .Pipeline.PipelineURI }}",
		EnvironmentName:   "{{ .Environment.Name }}",
		EnvironmentURI:    "{{ .Environment.EnvironmentURI }}",
		EnvResourcePrefix: "{{ .Environment.ResourcePrefix }}",
		InputBucket:       "{{ .Pipeline.S3InputBucket }}",
		InputPrefix:       "{{ .Pipeline.S3InputPrefix }}",
		OutputBucket:      "{{ .Pipeline.S3OutputBucket }}",
		OutputPrefix:      "{{ .Pipeline.S3OutputPrefix }}",
		Team:              "{{ .Pipeline.SamlGroupName }}",
	})

	app.Synth(nil)
}
`))

// AppData parameterizes the rendered entrypoint.
type AppData struct {
	Pipeline       *model.OmicsPipeline
	Environment    *model.Environment
	ResourcePrefix string
}

// WriteAppFile renders the entrypoint into the blueprint directory,
// replacing any previous rendering.
func WriteAppFile(dir string, data AppData) error {
	f, err := os.Create(filepath.Join(dir, AppFileName))
	if err != nil {
		return errors.Wrap(err, "create app file")
	}
	defer f.Close()

	if err := appTemplate.Execute(f, data); err != nil {
		return errors.Wrapf(err, "render app file for pipeline %q", data.Pipeline.PipelineURI)
	}
	return nil
}
