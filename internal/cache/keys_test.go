package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "user",
			objectType:  "statistics",
			identifier:  "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			paramsKey:   nil,
			expectedKey: "vidquiz:user:statistics:01ARZ3NDEKTSV4RRFFQ69G5FAV",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "detail",
			identifier:  "abc",
			paramsKey:   []string{},
			expectedKey: "vidquiz:quiz:detail:abc",
		},
		{
			name:        "with one paramsKey",
			serviceName: "quiz",
			objectType:  "history",
			identifier:  "u1",
			paramsKey:   []string{"page1"},
			expectedKey: "vidquiz:quiz:history:u1:page1",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "history",
			identifier:  "u1",
			paramsKey:   []string{"page1", "limit10"},
			expectedKey: "vidquiz:quiz:history:u1:page1_limit10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if got != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %s, want %s", got, tt.expectedKey)
			}
		})
	}
}
