package notification

import (
	"context"
	"sync"
)

// MockNotifier records notifications instead of delivering them. Set Err to
// make every Send fail.
type MockNotifier struct {
	mu                sync.Mutex
	SentNotifications []NotificationData
	SentNotices       []NoticeType
	Err               error
}

func (m *MockNotifier) Send(ctx context.Context, noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.SentNotifications = append(m.SentNotifications, notification)
	m.SentNotices = append(m.SentNotices, noticeType)
	return nil
}

// Count returns how many notifications were recorded.
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentNotifications)
}
