package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// TelegramFileResponse represents the response from getFile
type TelegramFileResponse struct {
	Ok     bool `json:"ok"`
	Result struct {
		FileID   string `json:"file_id"`
		FileSize int64  `json:"file_size"`
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// FileService resolves uploaded Telegram files (profile photos, certificate
// scans) to downloadable URLs.
type FileService struct {
	BotToken string
	BaseURL  string
	Client   *http.Client
}

// NewFileService creates a new file service
func NewFileService(botToken string) *FileService {
	return &FileService{
		BotToken: botToken,
		BaseURL:  "https://api.telegram.org",
		Client:   http.DefaultClient,
	}
}

// ConvertFileIDToURL converts a Telegram file ID to a URL the file can be
// downloaded from.
func (s *FileService) ConvertFileIDToURL(ctx context.Context, fileID string) (string, error) {
	getFileURL := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", s.BaseURL, s.BotToken, url.QueryEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getFileURL, nil)
	if err != nil {
		return "", fmt.Errorf("error building getFile request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error getting file path: %w", err)
	}
	defer resp.Body.Close()

	var fileResponse TelegramFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fileResponse); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	if !fileResponse.Ok || fileResponse.Result.FilePath == "" {
		return "", fmt.Errorf("couldn't retrieve file path for file ID: %s", fileID)
	}

	return fmt.Sprintf("%s/file/bot%s/%s", s.BaseURL, s.BotToken, fileResponse.Result.FilePath), nil
}
