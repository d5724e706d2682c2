package api

import (
	"github.com/moht-agrawal-rubrik/tlean/app/database"
	"github.com/moht-agrawal-rubrik/tlean/app/tasks"
)

type Handler struct {
	repo        database.CandidateRepositoryInterface
	scheduler   tasks.TaskSchedulerInterface
	resultLimit int
	minScore    float64
}
