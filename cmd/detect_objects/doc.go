// Package main provides a demo program for object detection with a
// pretrained Tiny YOLOv2 network. Every image of the images folder is scored,
// the output grid is decoded into bounding boxes and the boxes kept after
// non-maximum suppression are printed and drawn into the output folder.
package main
