package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parts-pile/valuator/estimator"
)

func newPublishCmd() *cobra.Command {
	var artifactDir, bucket, prefix string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload artifacts to a Backblaze B2 bucket",
		Long:  "Validates the artifacts in a directory and uploads them to B2. Credentials come from B2_ACCOUNT_ID or B2_KEY_ID, and B2_APP_KEY.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, artifactDir, bucket, prefix)
		},
	}

	cmd.Flags().StringVar(&artifactDir, "artifacts", "artifacts", "directory holding the artifact files")
	cmd.Flags().StringVar(&bucket, "bucket", os.Getenv("B2_BUCKET"), "B2 bucket name")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the bucket")
	return cmd
}

func runPublish(cmd *cobra.Command, artifactDir, bucketName, prefix string) error {
	if bucketName == "" {
		return fmt.Errorf("--bucket or B2_BUCKET is required")
	}
	creds := estimator.B2Credentials{
		AccountID: os.Getenv("B2_ACCOUNT_ID"),
		KeyID:     os.Getenv("B2_KEY_ID"),
		AppKey:    os.Getenv("B2_APP_KEY"),
	}
	if creds.AppKey == "" || (creds.AccountID == "" && creds.KeyID == "") {
		return fmt.Errorf("B2 credentials are not set")
	}

	bucket, err := estimator.OpenB2Bucket(creds, bucketName)
	if err != nil {
		return err
	}
	if err := estimator.Publish(cmd.Context(), bucket, prefix, artifactDir); err != nil {
		return err
	}

	src := &estimator.B2Source{BucketName: bucketName, Prefix: prefix}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %s\n", artifactDir, src)
	return nil
}
