package detector

var Detect = detect
