// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"relaychart/chartgroup"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

type ToolbarAction int

const (
	ToolbarNone ToolbarAction = iota
	ToolbarToolChanged
	ToolbarReset
	ToolbarDeleteLast
)

var toolbarTools = []chartgroup.Tool{chartgroup.ToolBrush, chartgroup.ToolTrend, chartgroup.ToolLevel}

type Toolbar struct {
	tools        widget.Enum
	buttonReset  widget.Clickable
	buttonDelete widget.Clickable
	Margin       unit.Dp
}

func NewToolbar() *Toolbar {
	t := &Toolbar{Margin: 4}
	t.tools.Value = chartgroup.ToolBrush.String()
	return t
}

func (t *Toolbar) Tool() chartgroup.Tool {
	for _, tool := range toolbarTools {
		if tool.String() == t.tools.Value {
			return tool
		}
	}
	return chartgroup.ToolBrush
}

func (t *Toolbar) SetTool(tool chartgroup.Tool) {
	t.tools.Value = tool.String()
}

// Update returns the user action since the last call. Call from same goroutine as Layout.
func (t *Toolbar) Update(gtx layout.Context) ToolbarAction {
	if t.buttonReset.Clicked(gtx) {
		return ToolbarReset
	}
	if t.buttonDelete.Clicked(gtx) {
		return ToolbarDeleteLast
	}
	if t.tools.Update(gtx) {
		return ToolbarToolChanged
	}
	return ToolbarNone
}

func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme, canDelete bool) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(t.Margin).Layout(gtx, material.Button(th, &t.buttonReset, "Reset zoom").Layout)
		}),
	}
	for _, tool := range toolbarTools {
		tool := tool
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(t.Margin).Layout(gtx,
				material.RadioButton(th, &t.tools, tool.String(), toolLabel(tool)).Layout)
		}))
	}
	children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		if !canDelete {
			gtx = gtx.Disabled()
		}
		return layout.UniformInset(t.Margin).Layout(gtx, material.Button(th, &t.buttonDelete, "Delete last").Layout)
	}))
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
}

func toolLabel(tool chartgroup.Tool) string {
	switch tool {
	case chartgroup.ToolTrend:
		return "Trend line"
	case chartgroup.ToolLevel:
		return "Level"
	default:
		return "Brush"
	}
}
