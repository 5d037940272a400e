package services

// ServiceContainer bundles the service interfaces for dependency injection
// into the HTTP layer.
type ServiceContainer struct {
	Account   AccountService
	Posting   PostingService
	Query     QueryService
	Reporting ReportingService
}
