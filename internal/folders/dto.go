package folders

import "time"

// FolderResponse is the outward-facing representation of a folder.
type FolderResponse struct {
	FolderID    string    `json:"folderId"`
	ParentID    string    `json:"parentId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FileEntryResponse is the file slice included in folder listings.
type FileEntryResponse struct {
	FileID       string    `json:"fileId"`
	Name         string    `json:"name"`
	SizeBytes    int64     `json:"sizeBytes"`
	StorageClass string    `json:"storageClass"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// ContentsResponse is a folder listing: the folder itself (absent at the
// root level) plus its child folders and files.
type ContentsResponse struct {
	Folder  *FolderResponse     `json:"folder,omitempty"`
	Folders []FolderResponse    `json:"folders"`
	Files   []FileEntryResponse `json:"files"`
}

func toResponse(folder Folder) FolderResponse {
	return FolderResponse{
		FolderID:    folder.ID,
		ParentID:    folder.ParentID,
		Name:        folder.Name,
		Description: folder.Description,
		CreatedAt:   folder.CreatedAt,
		UpdatedAt:   folder.UpdatedAt,
	}
}

func toContentsResponse(contents Contents) ContentsResponse {
	resp := ContentsResponse{
		Folders: make([]FolderResponse, 0, len(contents.Folders)),
		Files:   make([]FileEntryResponse, 0, len(contents.Files)),
	}
	if contents.Folder != nil {
		folder := toResponse(*contents.Folder)
		resp.Folder = &folder
	}
	for _, child := range contents.Folders {
		resp.Folders = append(resp.Folders, toResponse(child))
	}
	for _, entry := range contents.Files {
		resp.Files = append(resp.Files, FileEntryResponse{
			FileID:       entry.ID,
			Name:         entry.Name,
			SizeBytes:    entry.SizeBytes,
			StorageClass: entry.StorageClass,
			UploadedAt:   entry.CreatedAt,
		})
	}
	return resp
}
