package service

import (
	"fmt"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActivityRecorder appends the human-readable trail entry for each queue
// transition. Recording is consumed by the queue usecases, never owned by
// them: a failed write is logged and the operation proceeds.
type ActivityRecorder interface {
	QueueCreated(db *gorm.DB, queue *entity.Queue, patientName string)
	QueueCalled(db *gorm.DB, queue *entity.Queue, patientName string)
	QueueCompleted(db *gorm.DB, queue *entity.Queue, patientName string, serviceTime int)
	QueueCancelled(db *gorm.DB, queue *entity.Queue, patientName string)
	StatusChanged(db *gorm.DB, queue *entity.Queue, patientName string, previous entity.QueueStatus, notes string)
}

type activityService struct {
	log          *logrus.Logger
	activityRepo repository.ActivityLogRepository
}

func NewActivityService(log *logrus.Logger, activityRepo repository.ActivityLogRepository) ActivityRecorder {
	return &activityService{
		log:          log,
		activityRepo: activityRepo,
	}
}

func (s *activityService) QueueCreated(db *gorm.DB, queue *entity.Queue, patientName string) {
	s.record(db, &entity.ActivityLog{
		Type:        entity.ActivityQueueCreated,
		Title:       "Queue created",
		Description: fmt.Sprintf("%s booked queue number %d", patientName, queue.QueueNumber),
		UserID:      &queue.UserID,
		QueueID:     &queue.ID,
		Metadata: entity.JSON{
			"queue_number":     queue.QueueNumber,
			"appointment_date": queue.AppointmentDate,
			"patient_name":     patientName,
		},
	})
}

func (s *activityService) QueueCalled(db *gorm.DB, queue *entity.Queue, patientName string) {
	s.record(db, &entity.ActivityLog{
		Type:        entity.ActivityQueueCalled,
		Title:       "Queue called",
		Description: fmt.Sprintf("%s (number %d) called for service", patientName, queue.QueueNumber),
		UserID:      &queue.UserID,
		QueueID:     &queue.ID,
		Metadata: entity.JSON{
			"queue_number": queue.QueueNumber,
			"patient_name": patientName,
			"called_at":    queue.ServiceStartedAt,
		},
	})
}

func (s *activityService) QueueCompleted(db *gorm.DB, queue *entity.Queue, patientName string, serviceTime int) {
	s.record(db, &entity.ActivityLog{
		Type:        entity.ActivityQueueCompleted,
		Title:       "Queue completed",
		Description: fmt.Sprintf("%s (number %d) has been served", patientName, queue.QueueNumber),
		UserID:      &queue.UserID,
		QueueID:     &queue.ID,
		Metadata: entity.JSON{
			"queue_number": queue.QueueNumber,
			"patient_name": patientName,
			"service_time": serviceTime,
			"completed_at": queue.ServiceCompletedAt,
		},
	})
}

func (s *activityService) QueueCancelled(db *gorm.DB, queue *entity.Queue, patientName string) {
	s.record(db, &entity.ActivityLog{
		Type:        entity.ActivityQueueCancelled,
		Title:       "Queue cancelled",
		Description: fmt.Sprintf("%s cancelled queue number %d", patientName, queue.QueueNumber),
		UserID:      &queue.UserID,
		QueueID:     &queue.ID,
		Metadata: entity.JSON{
			"queue_number":     queue.QueueNumber,
			"patient_name":     patientName,
			"appointment_date": queue.AppointmentDate,
		},
	})
}

// StatusChanged records admin-initiated transitions. Only terminal outcomes
// leave a trail; moves back into waiting or in_service do not.
func (s *activityService) StatusChanged(db *gorm.DB, queue *entity.Queue, patientName string, previous entity.QueueStatus, notes string) {
	activityType, title := statusActivity(queue.Status)
	if activityType == "" {
		return
	}

	description := fmt.Sprintf("%s (number %d) - %s", patientName, queue.QueueNumber, title)
	if notes != "" {
		description += ". Notes: " + notes
	}

	s.record(db, &entity.ActivityLog{
		Type:        activityType,
		Title:       title,
		Description: description,
		UserID:      &queue.UserID,
		QueueID:     &queue.ID,
		Metadata: entity.JSON{
			"queue_number":    queue.QueueNumber,
			"patient_name":    patientName,
			"previous_status": string(previous),
			"new_status":      string(queue.Status),
			"notes":           notes,
		},
	})
}

func (s *activityService) record(db *gorm.DB, log *entity.ActivityLog) {
	if err := s.activityRepo.Create(db, log); err != nil {
		s.log.Warnf("Failed to record %s activity: %+v", log.Type, err)
	}
}

func statusActivity(status entity.QueueStatus) (string, string) {
	switch status {
	case entity.QueueStatusCompleted:
		return entity.ActivityQueueCompleted, "Queue completed"
	case entity.QueueStatusCancelled:
		return entity.ActivityQueueCancelled, "Queue cancelled"
	case entity.QueueStatusNoShow:
		return entity.ActivityQueueNoShow, "Patient did not show up"
	}
	return "", ""
}
