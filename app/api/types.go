package api

import (
	"time"

	"github.com/lysyi3m/k-rank/app/cache"
	"github.com/lysyi3m/k-rank/app/ranking"
	"github.com/lysyi3m/k-rank/app/tasks"
)

type GeneratorInterface interface {
	Run(channel ranking.Channel, headlines []ranking.Headline) (string, error)
}

var _ GeneratorInterface = (*ranking.Generator)(nil)

type Handler struct {
	service   *ranking.Service
	catalog   *ranking.Catalog
	cache     cache.Cache
	filterer  *ranking.Filterer
	generator GeneratorInterface
	scheduler tasks.TaskSchedulerInterface
}

// RankingResponse is the JSON body of every ranking list endpoint. Status
// describes the snapshot; Count is the number of items left after filtering.
type RankingResponse struct {
	Status    ranking.Status `json:"status"`
	Domain    ranking.Domain `json:"domain"`
	Category  string         `json:"category"`
	Query     string         `json:"q,omitempty"`
	Date      string         `json:"date,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Count     int            `json:"count"`
	Items     any            `json:"items"`
	Error     string         `json:"error,omitempty"`
}

type SummaryEntry struct {
	Domain   ranking.Domain `json:"domain"`
	Status   ranking.Status `json:"status"`
	Rank     int            `json:"rank,omitempty"`
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Stat     string         `json:"stat,omitempty"`
	Change   string         `json:"change,omitempty"`
	Link     string         `json:"link,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`
}
