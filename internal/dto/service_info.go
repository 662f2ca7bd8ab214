// File: internal/dto/service_info.go
package dto

// swagger:model dto.ServiceInfo
type ServiceInfo struct {
	Name    string `json:"name" example:"User Center"`
	Version string `json:"version" example:"0.1.0"`
}

// swagger:model dto.HealthStatus
type HealthStatus struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
