package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(t *testing.T, filename string, size int64, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.NotEmpty(t, form.File["file"])
	fileHeader := form.File["file"][0]
	// Override size for testing purposes
	fileHeader.Size = size
	return fileHeader
}

func TestValidateBackupFile(t *testing.T) {
	content := []byte(`{"products":[]}`)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{name: "valid json file", filename: "backup.json", size: int64(len(content))},
		{name: "extension is case-insensitive", filename: "BACKUP.JSON", size: int64(len(content))},
		{name: "file too large", filename: "backup.json", size: 11 * 1024 * 1024, wantCode: "FILE_TOO_LARGE"},
		{name: "wrong extension", filename: "backup.txt", size: int64(len(content)), wantCode: "INVALID_FILE_FORMAT"},
		{name: "no extension", filename: "backup", size: int64(len(content)), wantCode: "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBackupFile(createTestFileHeader(t, tt.filename, tt.size, content))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var fileErr *FileUploadError
			require.ErrorAs(t, err, &fileErr)
			assert.Equal(t, tt.wantCode, fileErr.Code)
		})
	}
}

func TestReadBackupFile(t *testing.T) {
	content := []byte(`{"categories":[{"id":1,"name":"Bebidas"}]}`)

	got, err := ReadBackupFile(createTestFileHeader(t, "loja.json", int64(len(content)), content))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadBackupFileEmpty(t *testing.T) {
	_, err := ReadBackupFile(createTestFileHeader(t, "vazio.json", 0, []byte{}))

	var fileErr *FileUploadError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "EMPTY_FILE", fileErr.Code)
}

func TestReadBackupFileRejectsInvalidFormat(t *testing.T) {
	content := []byte("not json")
	_, err := ReadBackupFile(createTestFileHeader(t, "backup.csv", int64(len(content)), content))

	var fileErr *FileUploadError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
}

func TestBackupFilename(t *testing.T) {
	at := time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("BRT", -3*60*60))

	assert.Equal(t, "backup_store-1_2024-05-11.json", BackupFilename("store-1", at))
	assert.Equal(t, "backup_completo_2024-05-11.json", BackupFilename("", at))
}
