package backend

import (
	"context"
	"net/url"
	"time"
)

// --- Wire types (Google Drive group). OAuth happens server-side: the client
// only surfaces the consent URL and talks to the proxy endpoints. ---

type DriveStatusResponse struct {
	Success   bool   `json:"success"`
	Connected bool   `json:"conectado"`
	Email     string `json:"email,omitempty"`
}

type DriveAuthURLResponse struct {
	Success bool   `json:"success"`
	AuthURL string `json:"auth_url"`
}

type DriveFilePayload struct {
	ID         string     `json:"id"`
	Name       string     `json:"nombre"`
	MimeType   string     `json:"mime_type"`
	ModifiedAt *time.Time `json:"modificado,omitempty"`
}

type DriveFilesResponse struct {
	Success bool               `json:"success"`
	Files   []DriveFilePayload `json:"archivos"`
}

type DriveImportRequest struct {
	FileID    string `json:"file_id"`
	SessionID string `json:"session_id,omitempty"`
}

type DriveImportResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documento_id"`
	Message    string `json:"message,omitempty"`
}

type DriveFolderPayload struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

type DriveFoldersResponse struct {
	Success bool                 `json:"success"`
	Folders []DriveFolderPayload `json:"carpetas"`
}

type DriveCreateFolderRequest struct {
	Name     string `json:"nombre"`
	ParentID string `json:"parent_id,omitempty"`
}

type DriveCreateFolderResponse struct {
	Success bool               `json:"success"`
	Folder  DriveFolderPayload `json:"carpeta"`
}

type DriveSaveRequest struct {
	SessionID string `json:"session_id"`
	FolderID  string `json:"folder_id,omitempty"`
	Filename  string `json:"nombre_archivo,omitempty"`
}

type DriveSaveResponse struct {
	Success bool   `json:"success"`
	FileID  string `json:"file_id"`
	WebLink string `json:"web_link,omitempty"`
}

// --- Endpoints ---

// DriveStatus reports whether the user's Drive account is linked.
func (c *Client) DriveStatus(ctx context.Context) (*DriveStatusResponse, error) {
	var out DriveStatusResponse
	if err := c.getJSON(ctx, "/api/google-drive/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveAuthURL returns the consent URL to link a Drive account. The OAuth
// callback lands on the server, never here.
func (c *Client) DriveAuthURL(ctx context.Context) (*DriveAuthURLResponse, error) {
	var out DriveAuthURLResponse
	if err := c.getJSON(ctx, "/api/google-drive/auth-url", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveFiles lists importable files, optionally inside one folder.
func (c *Client) DriveFiles(ctx context.Context, folderID string) (*DriveFilesResponse, error) {
	path := "/api/google-drive/files"
	if folderID != "" {
		path += "?folder_id=" + url.QueryEscape(folderID)
	}
	var out DriveFilesResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveImport pulls one Drive file into the training corpus or a session.
// Conversion happens server-side and can take a while.
func (c *Client) DriveImport(ctx context.Context, req *DriveImportRequest) (*DriveImportResponse, error) {
	var out DriveImportResponse
	if err := c.postLong(ctx, "/api/google-drive/import", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveFolders lists the user's Drive folders.
func (c *Client) DriveFolders(ctx context.Context) (*DriveFoldersResponse, error) {
	var out DriveFoldersResponse
	if err := c.getJSON(ctx, "/api/google-drive/folders", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveCreateFolder makes a new Drive folder.
func (c *Client) DriveCreateFolder(ctx context.Context, req *DriveCreateFolderRequest) (*DriveCreateFolderResponse, error) {
	var out DriveCreateFolderResponse
	if err := c.postShort(ctx, "/api/google-drive/folders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DriveSave exports the generated document of a session to Drive.
func (c *Client) DriveSave(ctx context.Context, req *DriveSaveRequest) (*DriveSaveResponse, error) {
	var out DriveSaveResponse
	if err := c.postLong(ctx, "/api/google-drive/save", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
