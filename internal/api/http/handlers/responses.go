package handlers

import (
	"github.com/e-wheels/workshop-service/internal/api/dto"
	"github.com/e-wheels/workshop-service/internal/domain"
)

func technicianResponse(tech *domain.Technician) dto.TechnicianResponse {
	return dto.TechnicianResponse{
		ID:         tech.ID,
		Email:      tech.Email,
		FullName:   tech.FullName,
		Role:       string(tech.Role),
		LocationID: tech.LocationID,
	}
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:            ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		CustomerID:    ticket.CustomerID,
		Symptom:       ticket.Symptom,
		Description:   ticket.Description,
		VehicleMake:   ticket.VehicleMake,
		VehicleModel:  ticket.VehicleModel,
		VehicleRegNo:  ticket.VehicleRegNo,
		VehicleYear:   ticket.VehicleYear,
		Status:        ticket.Status,
		VehicleCaseID: ticket.VehicleCaseID,
		BatteryCaseID: ticket.BatteryCaseID,
		TriageNotes:   ticket.TriageNotes,
		TriagedAt:     ticket.TriagedAt,
		TriagedBy:     ticket.TriagedBy,
		LocationID:    ticket.LocationID,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
		ClosedAt:      ticket.ClosedAt,
	}
}

func vehicleCaseResponse(vc *domain.VehicleCase) dto.VehicleCaseResponse {
	return dto.VehicleCaseResponse{
		ID:                 vc.ID,
		TicketID:           vc.TicketID,
		CustomerID:         vc.CustomerID,
		VehicleMake:        vc.VehicleMake,
		VehicleModel:       vc.VehicleModel,
		VehicleRegNo:       vc.VehicleRegNo,
		VehicleYear:        vc.VehicleYear,
		VINNumber:          vc.VINNumber,
		Status:             vc.Status,
		InitialDiagnosis:   vc.InitialDiagnosis,
		DiagnosticNotes:    vc.DiagnosticNotes,
		RepairNotes:        vc.RepairNotes,
		TechnicianNotes:    vc.TechnicianNotes,
		AssignedTechnician: vc.AssignedTechnician,
		ReceivedAt:         vc.ReceivedAt,
		DeliveredAt:        vc.DeliveredAt,
		CreatedAt:          vc.CreatedAt,
		UpdatedAt:          vc.UpdatedAt,
	}
}

func batteryCaseResponse(bc *domain.BatteryCase) dto.BatteryCaseResponse {
	return dto.BatteryCaseResponse{
		ID:                 bc.ID,
		TicketID:           bc.TicketID,
		CustomerID:         bc.CustomerID,
		SerialNumber:       bc.SerialNumber,
		Brand:              bc.Brand,
		Model:              bc.Model,
		BatteryType:        bc.BatteryType,
		Voltage:            bc.Voltage,
		CapacityAh:         bc.CapacityAh,
		Status:             bc.Status,
		RepairNotes:        bc.RepairNotes,
		TechnicianNotes:    bc.TechnicianNotes,
		AssignedTechnician: bc.AssignedTechnician,
		ReceivedAt:         bc.ReceivedAt,
		DeliveredAt:        bc.DeliveredAt,
		CreatedAt:          bc.CreatedAt,
		UpdatedAt:          bc.UpdatedAt,
	}
}

func historyEntryResponse(entry *domain.StatusHistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:             entry.ID,
		EntityID:       entry.EntityID,
		EntityKind:     string(entry.EntityKind),
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Note:           entry.Note,
		ChangedBy:      entry.ChangedBy,
		ChangedAt:      entry.ChangedAt,
	}
}

func attachmentResponse(att *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:              att.ID,
		TicketID:        att.TicketID,
		CaseType:        att.CaseType,
		CaseID:          att.CaseID,
		Kind:            att.Kind,
		FileName:        att.FileName,
		OriginalName:    att.OriginalName,
		StoragePath:     att.StoragePath,
		SizeBytes:       att.SizeBytes,
		MimeType:        att.MimeType,
		DurationSeconds: att.DurationSeconds,
		UploadedBy:      att.UploadedBy,
		UploadedAt:      att.UploadedAt,
	}
}
