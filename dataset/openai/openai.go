// Package openai implements the dataset uploader on the OpenAI Files API.
// A dataset version is stored as one JSONL file named <name>-<version>.jsonl;
// EnsureDataset reuses an already-registered version instead of re-uploading.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/triagemesh/triagemesh/dataset"
)

// Options configure the uploader.
type Options struct {
	APIKey  string
	BaseURL string
}

// Uploader registers dataset files with the Files API.
type Uploader struct {
	sdk *openai.Client
}

var _ dataset.Uploader = (*Uploader)(nil)

// NewUploader creates an Uploader using the official client.
func NewUploader(optFns ...func(o *Options)) *Uploader {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	sdk := openai.NewClient(clientOpts...)

	return &Uploader{sdk: &sdk}
}

// NewUploaderFromSDK creates an Uploader from an existing SDK client.
func NewUploaderFromSDK(sdk *openai.Client) *Uploader {
	return &Uploader{sdk: sdk}
}

// EnsureDataset implements dataset.Uploader.
func (u *Uploader) EnsureDataset(ctx context.Context, name, version, path string) (string, error) {
	filename := fmt.Sprintf("%s-%s.jsonl", name, version)

	iter := u.sdk.Files.ListAutoPaging(ctx, openai.FileListParams{})
	for iter.Next() {
		f := iter.Current()
		if f.Filename == filename {
			return f.ID, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list files: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	uploaded, err := u.sdk.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(f, filename, "application/jsonl"),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	return uploaded.ID, nil
}
