// Package snapshot compares the JSON encoding of a value against a file under testdata
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"marias-server/internal/util"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename returns the snapshot file for a test and a snapshot name
func Filename(t *testing.T, name string) string {
	base := unsafeChars.ReplaceAllString(t.Name(), "_")
	if name != "" {
		base += "-" + unsafeChars.ReplaceAllString(name, "_")
	}

	return filepath.Join("testdata", "snapshots", base+".json")
}

// Match checks obj against its snapshot
// A missing snapshot is written instead. MARIAS_UPDATE_SNAPSHOTS=1 rewrites every snapshot it touches.
func Match(t *testing.T, name string, obj interface{}) bool {
	t.Helper()

	got, err := json.MarshalIndent(obj, "", "  ")
	if !assert.NoError(t, err) {
		return false
	}

	filename := Filename(t, name)
	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || util.Getenv("MARIAS_UPDATE_SNAPSHOTS", "") == "1" {
		return assert.NoError(t, write(filename, got))
	}

	if !assert.NoError(t, err) {
		return false
	}

	if !assert.Equal(t, strings.TrimSpace(string(expects)), strings.TrimSpace(string(got))) {
		t.Logf("snapshot %s differs, set MARIAS_UPDATE_SNAPSHOTS=1 to rewrite it", filename)
		return false
	}

	return true
}

func write(filename string, data []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(data, '\n'), 0644)
}
