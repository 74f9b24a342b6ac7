package b2world

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

func vec(v mgl64.Vec2) box2d.B2Vec2 { return box2d.MakeB2Vec2(v[0], v[1]) }

func fromVec(v box2d.B2Vec2) mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }

func toTransform(xf rigid.Transform) box2d.B2Transform {
	return box2d.B2Transform{P: vec(xf.P), Q: box2d.B2Rot{S: xf.Q.S, C: xf.Q.C}}
}

func fromTransform(xf box2d.B2Transform) rigid.Transform {
	return rigid.Transform{P: fromVec(xf.P), Q: rigid.Rot{S: xf.Q.S, C: xf.Q.C}}
}

func toAABB(b rigid.AABB) box2d.B2AABB {
	return box2d.B2AABB{LowerBound: vec(b.Lower), UpperBound: vec(b.Upper)}
}

func fromAABB(b box2d.B2AABB) rigid.AABB {
	return rigid.AABB{Lower: fromVec(b.LowerBound), Upper: fromVec(b.UpperBound)}
}
