package tracker

import (
	"errors"
	"strings"
	"testing"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/platform"
	"flighttrack-go/types"
)

func TestLoggerHeaderOnOpen(t *testing.T) {
	store := &platform.HostStorage{}
	l, err := OpenDataLogger(&platform.HostStorageOpener{Store: store}, types.StorageConfig{File: "flight_data.txt"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	got := string(store.Contents("flight_data.txt"))
	want := "\n\n" + LogHeader + "|\n"
	if got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}

	if !l.Append("3#None#None#None") {
		t.Fatal("append failed")
	}
	got = string(store.Contents("flight_data.txt"))
	if !strings.HasSuffix(got, "3#None#None#None|") {
		t.Errorf("log = %q, want trailing record with terminator", got)
	}
}

func TestLoggerAppendFailure(t *testing.T) {
	store := &platform.HostStorage{}
	l, err := OpenDataLogger(&platform.HostStorageOpener{Store: store}, types.StorageConfig{File: "flight_data.txt"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	store.WriteErr = errors.New("card pulled")
	if l.Append("1###") {
		t.Fatal("append must report failure")
	}
}

func TestLoggerMountFailure(t *testing.T) {
	store := &platform.HostStorage{MountErr: errors.New("no card")}
	_, err := OpenDataLogger(&platform.HostStorageOpener{Store: store}, types.StorageConfig{File: "flight_data.txt"})
	if errcode.Of(err) != errcode.NotMounted {
		t.Fatalf("err = %v, want not mounted", err)
	}
}

func TestLoggerOpenFailure(t *testing.T) {
	_, err := OpenDataLogger(&platform.HostStorageOpener{OpenErr: errors.New("spi dead")}, types.StorageConfig{File: "flight_data.txt"})
	if errcode.Of(err) != errcode.OpenFailed {
		t.Fatalf("err = %v, want open failed", err)
	}
}
