package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NotificationManager manages notifiers and notification templates.
type NotificationManager struct {
	BaseUrl string

	mu        sync.RWMutex
	notifiers map[NotificationSystem]Notifier

	// templates per notice type and system
	notificationRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates and returns a new NotificationManager.
// baseUrl is the public address links in notices point to.
func NewNotificationManager(baseUrl string) *NotificationManager {
	return &NotificationManager{
		BaseUrl:              strings.TrimRight(baseUrl, "/"),
		notifiers:            make(map[NotificationSystem]Notifier),
		notificationRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// RegisterNotifier registers a notifier for a specific system, replacing any previous one.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a template for noticeType on system.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notice type and system cannot be empty")
	}
	if template.Subject == "" {
		return fmt.Errorf("invalid template for %s: subject cannot be empty", noticeType)
	}
	if template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid template for %s: text or html body is required", noticeType)
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.notificationRegistry[noticeType]; !exists {
		nm.notificationRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.notificationRegistry[noticeType][system] = template
	return nil
}

// Send delivers the notice through every system that has a template for it.
// Systems are tried in name order and the first failure stops delivery.
func (nm *NotificationManager) Send(ctx context.Context, noticeType NoticeType, notification NotificationData) error {
	nm.mu.RLock()
	systemTemplates, exists := nm.notificationRegistry[noticeType]
	if !exists {
		nm.mu.RUnlock()
		return fmt.Errorf("no templates registered for notification type: %s", noticeType)
	}

	type delivery struct {
		system   NotificationSystem
		notifier Notifier
		template NoticeTemplate
	}
	deliveries := make([]delivery, 0, len(systemTemplates))
	for system, template := range systemTemplates {
		notifier, ok := nm.notifiers[system]
		if !ok {
			nm.mu.RUnlock()
			return fmt.Errorf("no notifier registered for system: %s", system)
		}
		deliveries = append(deliveries, delivery{system, notifier, template})
	}
	nm.mu.RUnlock()

	sort.Slice(deliveries, func(i, j int) bool {
		return deliveries[i].system < deliveries[j].system
	})

	for _, d := range deliveries {
		if err := d.notifier.Send(ctx, noticeType, notification, d.template); err != nil {
			return fmt.Errorf("%s notifier: %w", d.system, err)
		}
	}
	return nil
}
