package shared

import "testing"

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			argv, err := browserCommand(tt.goos, "http://127.0.0.1:8000/login")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if argv[0] != tt.want {
				t.Errorf("expected launcher %s, got %s", tt.want, argv[0])
			}
			if argv[len(argv)-1] != "http://127.0.0.1:8000/login" {
				t.Errorf("expected URL as last argument, got %v", argv)
			}
		})
	}

	t.Run("OpenBrowser Unsupported Runtime", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error for unsupported runtime")
		}
	})
}
