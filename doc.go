/*
facekit provides face landmark detection and face similarity recognition
over a stream of image frames pulled from files, videos, or camera devices.

The package wraps pre-trained detection and encoding models behind a small
frame processing pipeline: capture a frame, detect faces and their landmark
geometry, optionally normalize the face into an upright fixed-size crop,
encode the face into a 128 element vector, and score that vector against a
gallery of known encodings belonging to a single identity.

The root package holds the shared data model and collaborator interfaces.
The numeric work lives in the geometry, normalize and encode subpackages.
capture, render and window provide the thin frame plumbing around them,
and detect plus detect/dlib supply the landmark model tables and a dlib
backed detector and embedder.

See the cmd/facekit CLI for end to end usage.
*/
package facekit
