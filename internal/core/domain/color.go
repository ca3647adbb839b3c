package domain

import "fmt"

// aciNames holds the named entries of the AutoCAD Color Index
var aciNames = map[int]string{
	0:  "ByBlock",
	1:  "Red",
	2:  "Yellow",
	3:  "Green",
	4:  "Cyan",
	5:  "Blue",
	6:  "Magenta",
	7:  "White/Black",
	8:  "Dark Gray",
	9:  "Light Gray",
	10: "Light Red",
	11: "Light Yellow",
	12: "Light Green",
	13: "Light Cyan",
	14: "Light Blue",
	15: "Light Magenta",
}

// ColorName returns the display name of an ACI color index
func ColorName(index int) string {
	if name, ok := aciNames[index]; ok {
		return name
	}
	return fmt.Sprintf("Color %d", index)
}
