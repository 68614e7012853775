// Package charts renders the catalog reports as PNG images with gonum/plot:
// line charts for the yearly trend and the forecast comparison, horizontal
// bar charts for the two theme rankings.
package charts
