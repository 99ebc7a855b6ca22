//-----------------------------------------------------------------------------
// Copyright (c) 2025-present Detlef Stern
//
// This file is part of rtfmark.
//
// rtfmark is licensed under the latest version of the EUPL (European Union
// Public License). Please see file LICENSE.txt for your rights and obligations
// under this license.
//
// SPDX-License-Identifier: EUPL-1.2
// SPDX-FileCopyrightText: 2025-present Detlef Stern
//-----------------------------------------------------------------------------

package markup

import "strings"

// Placeholder within a template, to be substituted by a parameter.
const (
	placeholder = '%'
	escape      = '\\'
)

// Expand substitutes the parameters into the placeholders of the template,
// in order. "\%" is written as a literal "%"; every other backslash is kept.
//
// Placeholders without a parameter are dropped. Their number is returned,
// so that the caller is able to report the malformed template.
func Expand(tmpl string, params ...string) (string, int) {
	if strings.IndexByte(tmpl, placeholder) < 0 {
		return tmpl, 0
	}
	var sb strings.Builder
	sb.Grow(len(tmpl))
	excess := 0
	for i := 0; i < len(tmpl); i++ {
		switch ch := tmpl[i]; ch {
		case escape:
			if i+1 < len(tmpl) && tmpl[i+1] == placeholder {
				sb.WriteByte(placeholder)
				i++
			} else {
				sb.WriteByte(ch)
			}
		case placeholder:
			if len(params) > 0 {
				sb.WriteString(params[0])
				params = params[1:]
			} else {
				excess++
			}
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String(), excess
}
