package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/config"
	"hotelops/infras/llm"
	llmMocks "hotelops/infras/llm/mocks"
	"hotelops/infras/otel/mocks"
	inquiryMocks "hotelops/internal/domains/inquiry/mocks"
	"hotelops/internal/domains/inquiry/model"
	"hotelops/internal/domains/inquiry/model/dto"
	"hotelops/internal/domains/inquiry/service"
	cacheMocks "hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/timezone"
)

type fixture struct {
	svc       service.Inquiry
	repo      *inquiryMocks.MockInquiry
	assistant *llmMocks.MockAssistant
	cache     *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      inquiryMocks.NewMockInquiry(ctrl),
		assistant: llmMocks.NewMockAssistant(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.assistant, cfg, f.cache, mocks.NewOtel())

	return f
}

func staffCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func TestInquiryService_Create(t *testing.T) {
	longMessage := strings.Repeat("ሰላም ክፍል አለ? ", 20)

	tests := []struct {
		name      string
		req       dto.CreateInquiryRequest
		setupMock func(f fixture)
		check     func(t *testing.T, m model.Inquiry)
		wantErr   bool
	}{
		{
			name: "translated request skips the assistant",
			req: dto.CreateInquiryRequest{
				Name:             "Sara",
				PhoneNumber:      "+251911000222",
				Message:          "Do you have rooms?",
				MessageEnglish:   "Do you have rooms?",
				MessageAmharic:   "ክፍል አላችሁ?",
				OriginalLanguage: "english",
			},
			setupMock: func(f fixture) {},
			check: func(t *testing.T, m model.Inquiry) {
				assert.Equal(t, "english", m.OriginalLanguage)
				assert.Equal(t, model.StatusReceived, m.Status)
				assert.Nil(t, m.AddressedAt)
				assert.Equal(t, "staff-1", m.CreatedBy)
			},
		},
		{
			name: "assistant fills translations",
			req:  dto.CreateInquiryRequest{Name: "Sara", PhoneNumber: "+251911000222", Message: "ክፍል አላችሁ?"},
			setupMock: func(f fixture) {
				f.assistant.EXPECT().AnalyzeInquiry(gomock.Any(), "Sara", "ክፍል አላችሁ?").Return(llm.InquiryAnalysis{
					MessageEnglish:   "Do you have rooms?",
					MessageAmharic:   "ክፍል አላችሁ?",
					OriginalLanguage: "amharic",
					Summary:          "Room availability",
				}, nil)
			},
			check: func(t *testing.T, m model.Inquiry) {
				assert.Equal(t, "Do you have rooms?", m.MessageEnglish)
				assert.Equal(t, "amharic", m.OriginalLanguage)
				assert.JSONEq(t, `{"summary":"Room availability","originalLanguage":"amharic"}`, m.AIAnalysis)
			},
		},
		{
			name: "assistant failure keeps the original text",
			req:  dto.CreateInquiryRequest{Name: "Sara", PhoneNumber: "+251911000222", Message: longMessage},
			setupMock: func(f fixture) {
				f.assistant.EXPECT().AnalyzeInquiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(llm.InquiryAnalysis{}, llm.ErrDisabled)
			},
			check: func(t *testing.T, m model.Inquiry) {
				assert.Equal(t, longMessage, m.MessageEnglish)
				assert.Equal(t, longMessage, m.MessageAmharic)
				assert.Equal(t, model.LanguageUnknown, m.OriginalLanguage)

				var analysis map[string]string
				require.NoError(t, json.Unmarshal([]byte(m.AIAnalysis), &analysis))
				assert.Equal(t, 100, len([]rune(analysis["summary"])))
				assert.Equal(t, model.LanguageUnknown, analysis["originalLanguage"])
			},
		},
		{
			name: "created as addressed is stamped",
			req: dto.CreateInquiryRequest{
				Name: "Sara", PhoneNumber: "+251911000222", Message: "Hi",
				MessageEnglish: "Hi", MessageAmharic: "ሰላም", Status: model.StatusAddressed,
			},
			setupMock: func(f fixture) {},
			check: func(t *testing.T, m model.Inquiry) {
				assert.NotNil(t, m.AddressedAt)
			},
		},
		{
			name: "insert failure",
			req: dto.CreateInquiryRequest{
				Name: "Sara", PhoneNumber: "+251911000222", Message: "Hi",
				MessageEnglish: "Hi", MessageAmharic: "ሰላም",
			},
			setupMock: func(f fixture) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			if tt.wantErr {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

				_, err := f.svc.Create(staffCtx(), tt.req)
				assert.Error(t, err)

				return
			}

			f.repo.EXPECT().
				Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, m model.Inquiry) error {
					tt.check(t, m)

					return nil
				})

			res, err := f.svc.Create(staffCtx(), tt.req)
			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestInquiryService_CreateWithoutUserIsGuest(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m model.Inquiry) error {
			assert.Equal(t, constant.ContextGuest, m.CreatedBy)

			return nil
		})

	_, err := f.svc.Create(context.Background(), dto.CreateInquiryRequest{
		Name: "Sara", PhoneNumber: "+251911000222", Message: "Hi", MessageEnglish: "Hi", MessageAmharic: "ሰላም",
	})
	require.NoError(t, err)
}

func TestInquiryService_GetAllOrdering(t *testing.T) {
	tests := []struct {
		name      string
		list      dto.ListInquiryRequest
		wantSorts []gDto.Sort
	}{
		{
			name:      "newest first",
			wantSorts: []gDto.Sort{{Field: "created_at", Dir: gDto.SortDirDesc}},
		},
		{
			name: "status filter sorts by status first",
			list: dto.ListInquiryRequest{Status: "received"},
			wantSorts: []gDto.Sort{
				{Field: "status", Dir: gDto.SortDirAsc},
				{Field: "created_at", Dir: gDto.SortDirDesc},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
			f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
			f.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Inquiry, error) {
					assert.Equal(t, tt.wantSorts, params.Sorts)

					return []model.Inquiry{}, nil
				})

			res, err := f.svc.GetAll(staffCtx(), gDto.QueryParams{Page: 1, Limit: 10}, tt.list)
			require.NoError(t, err)
			assert.Equal(t, 0, res.TotalPage)
			assert.Empty(t, res.Inquiries)
		})
	}
}

func TestInquiryService_Get(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Inquiry{}, nil)

	_, err := f.svc.Get(staffCtx(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestInquiryService_UpdateAddressedAt(t *testing.T) {
	addressed := model.StatusAddressed
	received := model.StatusReceived
	earlier := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		current       model.Inquiry
		req           dto.UpdateInquiryRequest
		wantStamped   bool
		wantAddressed *time.Time
	}{
		{
			name:        "first address stamps",
			current:     model.Inquiry{ID: "i1", Status: model.StatusReceived},
			req:         dto.UpdateInquiryRequest{Status: &addressed},
			wantStamped: true,
		},
		{
			name:          "readdressing keeps the stamp",
			current:       model.Inquiry{ID: "i1", Status: model.StatusAddressed, AddressedAt: &earlier},
			req:           dto.UpdateInquiryRequest{Status: &addressed},
			wantAddressed: &earlier,
		},
		{
			name:          "reopening keeps the stamp",
			current:       model.Inquiry{ID: "i1", Status: model.StatusAddressed, AddressedAt: &earlier},
			req:           dto.UpdateInquiryRequest{Status: &received},
			wantAddressed: &earlier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					_, stamped := fields[model.FieldAddressedAt]
					assert.Equal(t, tt.wantStamped, stamped)
					assert.Equal(t, "staff-1", fields[constant.FieldModifiedBy])

					return nil
				})

			res, err := f.svc.Update(staffCtx(), tt.req, "i1")
			require.NoError(t, err)
			require.NotNil(t, res.AddressedAt)

			if tt.wantAddressed != nil {
				assert.Equal(t, timezone.Format(*tt.wantAddressed, constant.DateFormat), *res.AddressedAt)
			}
		})
	}
}

func TestInquiryService_UpdateErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(staffCtx(), dto.UpdateInquiryRequest{}, "i1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	notes := "called back"

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Inquiry{}, nil)

	_, err = f.svc.Update(staffCtx(), dto.UpdateInquiryRequest{Notes: &notes}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestInquiryService_IngestWhatsApp(t *testing.T) {
	tests := []struct {
		name        string
		msg         gDto.WhatsAppMessage
		setupMock   func(f fixture)
		wantSuccess bool
		wantMessage string
	}{
		{
			name: "stores the analysed inquiry",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000333", Body: "Is breakfast included?", ProfileName: "Dawit"},
			setupMock: func(f fixture) {
				f.assistant.EXPECT().AnalyzeInquiry(gomock.Any(), "Dawit", "Is breakfast included?").Return(llm.InquiryAnalysis{
					MessageEnglish:   "Is breakfast included?",
					MessageAmharic:   "ቁርስ ይካተታል?",
					OriginalLanguage: "english",
					Summary:          "Breakfast question",
				}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Inquiry) error {
						assert.Equal(t, "Dawit", m.Name)
						assert.Equal(t, "+251911000333", m.PhoneNumber)
						assert.Equal(t, "ቁርስ ይካተታል?", m.MessageAmharic)
						assert.Equal(t, model.StatusReceived, m.Status)
						assert.Equal(t, constant.ContextWebhook, m.CreatedBy)

						return nil
					})
			},
			wantSuccess: true,
			wantMessage: "Thank you for your inquiry! Our team will get back to you shortly.",
		},
		{
			name: "missing profile name and assistant failure",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000333", Body: "ዋጋ ስንት ነው?"},
			setupMock: func(f fixture) {
				f.assistant.EXPECT().AnalyzeInquiry(gomock.Any(), "Guest", gomock.Any()).Return(llm.InquiryAnalysis{}, errors.New("timeout"))
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Inquiry) error {
						assert.Equal(t, "Guest", m.Name)
						assert.Equal(t, "ዋጋ ስንት ነው?", m.MessageEnglish)
						assert.Equal(t, "ዋጋ ስንት ነው?", m.MessageAmharic)
						assert.Equal(t, model.LanguageUnknown, m.OriginalLanguage)

						return nil
					})
			},
			wantSuccess: true,
			wantMessage: "Thank you for your inquiry! Our team will get back to you shortly.",
		},
		{
			name: "insert failure is reported in payload",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000333", Body: "Hello"},
			setupMock: func(f fixture) {
				f.assistant.EXPECT().AnalyzeInquiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(llm.InquiryAnalysis{}, llm.ErrDisabled)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantMessage: "Error processing your inquiry. Please try again or contact us directly.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res := f.svc.IngestWhatsApp(context.Background(), tt.msg)

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)

			if tt.wantSuccess {
				assert.NotEmpty(t, res.RequestID)
			}
		})
	}
}

func TestInquiryService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "deletes",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "missing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(staffCtx(), "i1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
