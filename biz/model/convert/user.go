package convert

import (
	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/storage"
)

func UserDomainToRecord(u *domain.User) *storage.UserRecord {
	if u == nil {
		return nil
	}
	m := &storage.UserRecord{
		GormModel: storage.GormModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Email:      u.Email,
		FullName:   u.Name,
		LoginCount: u.LoginCount,
		LastLogin:  u.LastLogin,
	}
	if u.ProviderID != "" {
		pid := u.ProviderID
		m.ProviderId = &pid
	}
	return m
}

func UserRecordToDomain(m *storage.UserRecord) *domain.User {
	if m == nil {
		return nil
	}
	u := &domain.User{
		ID:         m.ID,
		Email:      m.Email,
		Name:       m.FullName,
		LoginCount: m.LoginCount,
		LastLogin:  m.LastLogin,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ProviderId != nil {
		u.ProviderID = *m.ProviderId
	}
	return u
}

func LoginDomainToRecord(e *domain.LoginEvent) *storage.LoginRecord {
	if e == nil {
		return nil
	}
	return &storage.LoginRecord{
		GormModel: storage.GormModel{ID: e.ID},
		UserID:    e.UserID,
		LoginTime: e.LoginTime,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
	}
}

func LoginRecordToDomain(m *storage.LoginRecord) *domain.LoginEvent {
	if m == nil {
		return nil
	}
	return &domain.LoginEvent{
		ID:        m.ID,
		UserID:    m.UserID,
		LoginTime: m.LoginTime,
		IPAddress: m.IPAddress,
		UserAgent: m.UserAgent,
	}
}
