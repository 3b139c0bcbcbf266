package store

import (
	"context"

	"datagov/internal/model"
)

// GetPipelineByURI resolves an omics pipeline.
func (s *Store) GetPipelineByURI(ctx context.Context, pipelineURI string) (*model.OmicsPipeline, error) {
	var p model.OmicsPipeline
	err := s.pool.QueryRow(ctx,
		`SELECT pipeline_uri, name, COALESCE(description, ''), environment_uri,
		        s3_input_bucket, s3_input_prefix, s3_output_bucket, s3_output_prefix, saml_group_name
		 FROM omics_pipeline WHERE pipeline_uri = $1`,
		pipelineURI,
	).Scan(&p.PipelineURI, &p.Name, &p.Description, &p.EnvironmentURI,
		&p.S3InputBucket, &p.S3InputPrefix, &p.S3OutputBucket, &p.S3OutputPrefix, &p.SamlGroupName)
	if err != nil {
		return nil, notFound(err, "omics pipeline", pipelineURI)
	}
	return &p, nil
}
