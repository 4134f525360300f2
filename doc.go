// Package watermark restores the pixels beneath the fixed-position logo
// overlays stamped by AI image generators, by inverting the alpha blend that
// produced them.
//
// The package ships embedded reference captures for the supported watermark
// families and derives per-pixel opacity maps from them at whatever size the
// target image requires. The watermark region is computed purely from the
// image dimensions and the caller-supplied Variant; pixel content is never
// inspected. Everything runs in memory, no network or GPU is required.
package watermark
