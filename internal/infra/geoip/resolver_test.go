package geoip

import (
	"errors"
	"net"
	"testing"

	"github.com/oschwald/geoip2-golang"
)

type fakeReader struct {
	countries map[string]string
	calls     int
}

func (f *fakeReader) Country(ip net.IP) (*geoip2.Country, error) {
	f.calls++
	code, ok := f.countries[ip.String()]
	if !ok {
		return nil, errors.New("not found")
	}
	rec := &geoip2.Country{}
	rec.Country.IsoCode = code
	return rec, nil
}

func (f *fakeReader) Close() error { return nil }

func TestCountryCode(t *testing.T) {
	reader := &fakeReader{countries: map[string]string{"81.2.69.142": "GB", "2.16.0.1": ""}}
	r := &Resolver{reader: reader}

	cases := []struct {
		ip   string
		want string
		err  bool
	}{
		{ip: "81.2.69.142", want: "GB"},
		{ip: " 81.2.69.142 ", want: "GB"},
		{ip: "2.16.0.1", want: ""},
		{ip: "127.0.0.1", want: ""},
		{ip: "10.1.2.3", want: ""},
		{ip: "203.0.113.9", err: true},
		{ip: "not-an-ip", err: true},
	}
	for _, tc := range cases {
		got, err := r.CountryCode(tc.ip)
		if tc.err {
			if err == nil {
				t.Fatalf("CountryCode(%q) expected error", tc.ip)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("CountryCode(%q) = %q, %v; want %q", tc.ip, got, err, tc.want)
		}
	}
	if reader.calls != 4 {
		t.Fatalf("reader calls = %d, want 4 (private and loopback skipped)", reader.calls)
	}
}

func TestNilResolver(t *testing.T) {
	r, err := NewResolver("")
	if err != nil || r != nil {
		t.Fatalf("NewResolver(\"\") = %v, %v; want nil, nil", r, err)
	}
	if _, err := r.CountryCode("81.2.69.142"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
