package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodiesEqualUnwrapsEnvelopeAndIgnoresVolatileFields(t *testing.T) {
	cmp := newComparer(nil, "", "", []string{"id"})
	goBody := []byte(`{"data":[{"id":"a","title":"Mechanics","pageCount":3,"createdAt":"2024"}],"meta":{"processing_time_ms":1}}`)
	legacyBody := []byte(`{"papers":[{"_id":"x","title":"Mechanics","pageCount":3.0,"__v":0}]}`)

	ok, diff := cmp.bodiesEqual(goBody, legacyBody)
	assert.True(t, ok, diff)
}

func TestBodiesEqualReportsFirstDifference(t *testing.T) {
	cmp := newComparer(nil, "", "", nil)
	ok, diff := cmp.bodiesEqual([]byte(`{"data":{"title":"A","pages":2}}`), []byte(`{"title":"A","pages":3}`))
	assert.False(t, ok)
	assert.Equal(t, "$.pages: 2 vs 3", diff)

	ok, diff = cmp.bodiesEqual([]byte(`{"data":[1,2]}`), []byte(`[1]`))
	assert.False(t, ok)
	assert.Equal(t, "$: length 2 vs 1", diff)
}

func TestRunKeepsTargetOrderAndFlagsBreaking(t *testing.T) {
	goSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"title":"same"}}`))
	}))
	defer goSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"same"}`))
	}))
	defer legacySrv.Close()

	cmp := newComparer(goSrv.Client(), goSrv.URL, legacySrv.URL, nil)
	results := cmp.run(context.Background(), []target{
		{Name: "ok", Path: "/ok", Critical: true},
		{Name: "missing", Path: "missing", Critical: true},
	}, 2)

	require.Len(t, results, 2)
	assert.Equal(t, "ok", results[0].Target.Name)
	assert.True(t, results[0].StatusMatch)
	assert.True(t, results[0].BodyMatch)
	assert.False(t, results[0].breaking())

	assert.False(t, results[1].StatusMatch)
	assert.True(t, results[1].breaking())

	var out bytes.Buffer
	printReport(&out, results)
	assert.Contains(t, out.String(), "[OK] ok (GET /ok)")
	assert.Contains(t, out.String(), "[DIFF] missing (GET missing)")
}

func TestLoadTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ignore":["id"],"targets":[{"path":"/api/chapters"}]}`), 0o600))

	file, err := loadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, file.Ignore)
	assert.Len(t, file.Targets, 1)

	require.NoError(t, os.WriteFile(path, []byte(`{"targets":[]}`), 0o600))
	_, err = loadTargets(path)
	assert.Error(t, err)
}
