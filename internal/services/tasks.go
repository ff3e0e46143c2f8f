package services

import "poll-service/internal/tasks"

// RegisterTasks binds the background task names to their service handlers.
func RegisterTasks(reg *tasks.Registry, agg *AggregationService, notify *NotificationService, dist *DistributionService) {
	reg.Register(tasks.AggregateVotes, agg.HandleAggregateVotes)
	reg.Register(tasks.SendPollNotification, notify.HandleSendNotification)
	reg.Register(tasks.LogDistributionEvent, dist.HandleLogEvent)
}
