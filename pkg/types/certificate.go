package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Certificate numbers follow the registrar book format
// WB-MSD-BRW-{book}-{volNum}-{volLetter}-{volYear}-{serialNum}-{serialYear}-{page},
// ten hyphen-delimited fields in total.
const certificateNumberPrefix = "WB-MSD-BRW"

type CertificateNumber struct {
	Book         string
	VolumeNumber int
	VolumeLetter string
	VolumeYear   int
	SerialNumber int
	SerialYear   int
	Page         int
}

func (c CertificateNumber) String() string {
	return fmt.Sprintf("%s-%s-%d-%s-%d-%d-%d-%d",
		certificateNumberPrefix,
		c.Book, c.VolumeNumber, c.VolumeLetter, c.VolumeYear,
		c.SerialNumber, c.SerialYear, c.Page,
	)
}

// ParseCertificateNumber parses and validates the ten-field book format.
func ParseCertificateNumber(s string) (CertificateNumber, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 10 {
		return CertificateNumber{}, Ef(KindValidationFailed, "certificate number must have 10 fields, got %d", len(fields))
	}
	if prefix := strings.Join(fields[:3], "-"); prefix != certificateNumberPrefix {
		return CertificateNumber{}, Ef(KindValidationFailed, "certificate number must begin with %s", certificateNumberPrefix)
	}

	c := CertificateNumber{
		Book:         fields[3],
		VolumeLetter: fields[5],
	}
	if c.Book == "" || c.VolumeLetter == "" {
		return CertificateNumber{}, E(KindValidationFailed, "certificate number book and volume letter must be non-empty")
	}

	var err error
	if c.VolumeNumber, err = strconv.Atoi(fields[4]); err != nil {
		return CertificateNumber{}, WrapE(KindValidationFailed, "invalid volume number", err)
	}
	if c.VolumeYear, err = strconv.Atoi(fields[6]); err != nil {
		return CertificateNumber{}, WrapE(KindValidationFailed, "invalid volume year", err)
	}
	if c.SerialNumber, err = strconv.Atoi(fields[7]); err != nil {
		return CertificateNumber{}, WrapE(KindValidationFailed, "invalid serial number", err)
	}
	if c.SerialYear, err = strconv.Atoi(fields[8]); err != nil {
		return CertificateNumber{}, WrapE(KindValidationFailed, "invalid serial year", err)
	}
	if c.Page, err = strconv.Atoi(fields[9]); err != nil {
		return CertificateNumber{}, WrapE(KindValidationFailed, "invalid page", err)
	}

	return c, nil
}

func ValidCertificateNumber(s string) bool {
	_, err := ParseCertificateNumber(s)
	return err == nil
}

// NewVerificationID derives the public verification id for an issuance,
// MMR-BW-{year}-{6 trailing digits of the issuance timestamp}.
func NewVerificationID(issuedAt time.Time) string {
	return fmt.Sprintf("MMR-BW-%d-%06d", issuedAt.Year(), issuedAt.UnixMilli()%1_000_000)
}
