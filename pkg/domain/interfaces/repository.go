package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Control() ControlRepository
	UseCase() UseCaseRepository

	Close() error
}
