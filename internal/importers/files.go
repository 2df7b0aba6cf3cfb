package importers

// UploadedFile is one file from a parse request's multipart form, read
// fully into memory. Export archives are small enough for this; the
// request-level size ceiling is enforced before extraction.
type UploadedFile struct {
	Name string
	Data []byte
}

// TotalSize returns the combined byte size of the uploaded files.
func TotalSize(files []UploadedFile) int64 {
	var total int64
	for _, file := range files {
		total += int64(len(file.Data))
	}
	return total
}
