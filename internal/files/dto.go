package files

import "time"

// FileResponse is the outward-facing representation of a file.
type FileResponse struct {
	FileID       string    `json:"fileId"`
	FolderID     string    `json:"folderId,omitempty"`
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	StorageClass string    `json:"storageClass"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResponse(file File) FileResponse {
	return FileResponse{
		FileID:       file.ID,
		FolderID:     file.FolderID,
		Name:         file.DisplayName,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		StorageClass: string(file.StorageClass),
		UploadedAt:   file.CreatedAt,
		UpdatedAt:    file.UpdatedAt,
	}
}
