package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmdHelp(t *testing.T) {
	out, err := runCmd(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"import", "check", "publish"} {
		assert.Contains(t, out, sub)
	}
}

func TestImportThenCheck(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "listings.db")

	out, err := runCmd(t, "import", "--csv", "../../data/Cleaned_Car_data.csv", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 5 listings")

	out, err = runCmd(t, "check", "--dataset", dbPath, "--artifacts", "../../estimator/testdata", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Listings:   5")
	assert.Contains(t, out, "Input dim:  9")
	assert.Contains(t, out, "All dataset values are in the trained vocabulary")
}

func TestCheck_VocabularyGaps(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "cars.csv")
	data := "name,company,year,Price,kms_driven,fuel_type\n" +
		"Swift,Maruti,2015,350000,40000,Petrol\n" +
		"Nexon,Tata,2020,800000,10000,Petrol\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	out, err := runCmd(t, "check", "--dataset", csvPath, "--artifacts", "../../estimator/testdata")
	require.NoError(t, err)
	assert.Contains(t, out, `Unknown company "Tata"`)
	assert.Contains(t, out, `Unknown name "Nexon"`)

	_, err = runCmd(t, "check", "--dataset", csvPath, "--artifacts", "../../estimator/testdata", "--strict")
	assert.ErrorContains(t, err, "2 dataset values")
}

func TestCheck_MissingArtifacts(t *testing.T) {
	_, err := runCmd(t, "check", "--dataset", "../../data/Cleaned_Car_data.csv", "--artifacts", t.TempDir())
	assert.ErrorContains(t, err, "load artifacts")
}

func TestPublish_RequiresBucketAndCredentials(t *testing.T) {
	t.Setenv("B2_BUCKET", "")
	t.Setenv("B2_ACCOUNT_ID", "")
	t.Setenv("B2_KEY_ID", "")
	t.Setenv("B2_APP_KEY", "")

	_, err := runCmd(t, "publish", "--artifacts", "../../estimator/testdata")
	assert.ErrorContains(t, err, "B2_BUCKET is required")

	_, err = runCmd(t, "publish", "--artifacts", "../../estimator/testdata", "--bucket", "models")
	assert.ErrorContains(t, err, "credentials are not set")
}
