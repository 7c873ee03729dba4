package services

import (
	"log/slog"

	"github.com/SAP-F-2025/interview-prep-service/internal/events"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/scoring"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
)

// ServiceManager exposes every service built over one repository.
type ServiceManager interface {
	Session() SessionService
	Question() QuestionService
	Analytics() AnalyticsService
	ImportExport() ImportExportService
}

type serviceManager struct {
	session      SessionService
	question     QuestionService
	analytics    AnalyticsService
	importExport ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	engine := scoring.NewEngine(logger.With("component", "scoring"))
	sessionEvents := NewSessionEventService(publisher, logger)

	return &serviceManager{
		session:      NewSessionService(repo, engine, sessionEvents, logger, validator),
		question:     NewQuestionService(repo, logger, validator),
		analytics:    NewAnalyticsService(repo, logger, validator),
		importExport: NewImportExportService(repo, logger, validator),
	}
}

func (m *serviceManager) Session() SessionService           { return m.session }
func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) Analytics() AnalyticsService       { return m.analytics }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
