package stats

import "context"

// TotalsSource reports per-owner file count and summed bytes; the files repo
// implements it directly.
type TotalsSource interface {
	Totals(ctx context.Context, ownerID string) (count int64, bytes int64, err error)
}

// Summary is the storage usage snapshot for one owner.
type Summary struct {
	FileCount      int64 `json:"fileCount"`
	TotalBytes     int64 `json:"totalBytes"`
	MaxUploadBytes int64 `json:"maxUploadBytes"`
}

// Service computes storage usage summaries.
type Service struct {
	Files          TotalsSource
	MaxUploadBytes int64
}

// NewService constructs a Service.
func NewService(files TotalsSource, maxUploadBytes int64) *Service {
	return &Service{Files: files, MaxUploadBytes: maxUploadBytes}
}

// Summary returns the usage snapshot for an owner.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	count, bytes, err := s.Files.Totals(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		FileCount:      count,
		TotalBytes:     bytes,
		MaxUploadBytes: s.MaxUploadBytes,
	}, nil
}
