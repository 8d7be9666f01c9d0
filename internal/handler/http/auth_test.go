package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ekartshop/backend/internal/handler/http/mocks"
	"github.com/ekartshop/backend/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockAuthService
		wantStatusCode int
		wantToken      string
	}{
		{
			// 200 — успешная аутентификация.
			name: "valid_password_return_200",
			body: `{"password":"s3cret"}`,
			setup: func(t *testing.T) *mocks.MockAuthService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAuthService(ctrl)
				svcMock.EXPECT().Login("s3cret").Return("token-value", nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantToken:      "token-value",
		},
		{
			// 400 — неверный формат запроса.
			name: "bad_request_return_400",
			body: `{"password"`,
			setup: func(t *testing.T) *mocks.MockAuthService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAuthService(ctrl)
				svcMock.EXPECT().Login(gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 401 — неверный пароль.
			name: "wrong_password_return_401",
			body: `{"password":"wrong"}`,
			setup: func(t *testing.T) *mocks.MockAuthService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAuthService(ctrl)
				svcMock.EXPECT().Login(gomock.Any()).Return("", models.ErrInvalidCredentials).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewAuthHandler(st)
			h := handler.Login()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantToken != "" {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got loginResponse
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, got.Token)
			}
		})
	}
}
