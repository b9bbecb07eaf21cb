package main

import (
	"fmt"

	"bibaha/pkg/types"

	"github.com/urfave/cli/v2"
)

var certnoCommand = &cli.Command{
	Name:      "certno",
	Usage:     "Validate a certificate number and print its parsed fields",
	ArgsUsage: "<certificate-number>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one certificate number argument")
		}

		cert, err := types.ParseCertificateNumber(c.Args().First())
		if err != nil {
			return err
		}

		fmt.Printf("book:          %s\n", cert.Book)
		fmt.Printf("volume:        %d/%s/%d\n", cert.VolumeNumber, cert.VolumeLetter, cert.VolumeYear)
		fmt.Printf("serial:        %d/%d\n", cert.SerialNumber, cert.SerialYear)
		fmt.Printf("page:          %d\n", cert.Page)
		fmt.Printf("canonical:     %s\n", cert.String())
		return nil
	},
}
