package folders

import "time"

// Folder is a named container in a user's hierarchy. ParentID is empty for
// root-level folders. Every folder in a parent chain belongs to the same
// owner, and sibling folders never share a name.
type Folder struct {
	ID          string
	OwnerID     string
	ParentID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
