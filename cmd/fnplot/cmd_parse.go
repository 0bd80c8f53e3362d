// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"

	"github.com/AleutianAI/fnplot/services/plotter"
)

func runParse(cmd *cobra.Command, args []string) error {
	svc := plotter.NewService(plotter.DefaultServiceConfig(), nil)
	spec, err := svc.Parse(cmd.Context(), args[0], evalInterpolation)
	if err != nil {
		return err
	}

	resp := plotter.NewParseResponse(args[0], spec)
	if printer.Machine() {
		return printer.JSON(resp)
	}
	renderParse(resp)
	return nil
}
