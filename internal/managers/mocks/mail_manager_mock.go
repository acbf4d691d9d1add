package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendPasswordResetMail(email, name, token string) error {
	args := m.Called(email, name, token)
	return args.Error(0)
}
